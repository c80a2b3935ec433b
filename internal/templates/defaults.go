package templates

var defaults = map[Purpose]Template{
	Invitation: {
		Subject: "Interview Invitation - {company_name}",
		Body: `Dear {candidate_name},

Congratulations! We are pleased to invite you for an interview for the {role} position at {company_name}.

Interview Details:
- Date: {interview_date}
- Time: {interview_time}
- Duration: 60 minutes
- Meeting Link: {zoom_link}

Please join the meeting 5 minutes early to ensure everything is working properly.

We look forward to speaking with you!

Best regards,
{company_name} Recruitment Team`,
	},
	Confirmation: {
		Subject: "Interview Confirmation - {company_name}",
		Body: `Dear {candidate_name},

This is a confirmation of your upcoming interview for the {role} position.

Interview Details:
- Date: {interview_date}
- Time: {interview_time}
- Duration: 60 minutes
- Meeting Link: {zoom_link}

Please prepare:
1. Your resume
2. Examples of your work
3. Questions about the role and company

If you need to reschedule, please contact us at least 24 hours in advance.

Best regards,
{company_name} Recruitment Team`,
	},
	Reminder: {
		Subject: "Interview Reminder - Tomorrow at {interview_time}",
		Body: `Dear {candidate_name},

This is a friendly reminder about your interview tomorrow for the {role} position at {company_name}.

Interview Details:
- Date: {interview_date}
- Time: {interview_time}
- Duration: 60 minutes
- Meeting Link: {zoom_link}

We look forward to meeting you!

Best regards,
{company_name} Recruitment Team`,
	},
}
