package listener

import (
	"encoding/json"
	"log"

	"mechat-service/event"
	"mechat-service/mailer"
)

// Mail queue actions.
const (
	MailActionVerification  = "verification"
	MailActionWelcome       = "welcome"
	MailActionPasswordReset = "passwordReset"
)

// MailJob is the payload published to the mail queue by the auth flow.
type MailJob struct {
	To   string `json:"to"`
	Name string `json:"name"`
	Code string `json:"code"`
}

var (
	MailChannel = make(chan event.EventChannelData)
)

// Mail consumes mail jobs and sends them. Delivery failures are logged and
// surfaced nowhere else; there is no retry.
func Mail(m *mailer.Mailer) {
	for ev := range MailChannel {
		job := MailJob{}
		if err := json.Unmarshal(ev.Data, &job); err != nil {
			log.Printf("invalid mail job for action %q: %v", ev.Action, err)
			continue
		}

		var err error
		switch ev.Action {
		case MailActionVerification:
			err = m.SendVerificationCode(job.To, job.Name, job.Code)
		case MailActionWelcome:
			err = m.SendWelcome(job.To, job.Name)
		case MailActionPasswordReset:
			err = m.SendPasswordReset(job.To, job.Code)
		default:
			log.Printf("unknown mail action %q", ev.Action)
			continue
		}

		if err != nil {
			log.Printf("failed to send %q mail to %s: %v", ev.Action, job.To, err)
		}
	}
}
