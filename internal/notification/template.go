package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// SubmissionSubject is the fixed subject of every contact-request notification.
const SubmissionSubject = "Нова заявка з форми Ikigai Landing Page"

// TimestampLayout prints times the way the uk-UA locale does.
const TimestampLayout = "02.01.2006, 15:04:05"

// SubmissionDetails is what an operator needs to call the client back.
type SubmissionDetails struct {
	Name        string
	Phone       string
	Message     string
	ProcessedAt time.Time
}

// submissionTmpl renders the operator email. Values are auto-escaped by html/template.
var submissionTmpl = template.Must(template.New("submission").Parse(`
<p>Ви отримали нову заявку з контактної форми на сайті:</p>
<ul>
    <li><strong>Ім'я:</strong> {{.Name}}</li>
    <li><strong>Телефон:</strong> {{.Phone}}</li>
    <li><strong>Коментар:</strong> {{.Message}}</li>
    <li><strong>Час:</strong> {{.Time}}</li>
</ul>
<p>Необхідно зв'язатися з клієнтом якнайшвидше.</p>
`))

// BuildSubmissionMessage renders the notification for a contact request.
// ProcessedAt is printed in its own location.
func BuildSubmissionMessage(d SubmissionDetails) (Message, error) {
	ts := d.ProcessedAt.Format(TimestampLayout)

	var buf bytes.Buffer
	err := submissionTmpl.Execute(&buf, struct {
		Name, Phone, Message, Time string
	}{d.Name, d.Phone, d.Message, ts})
	if err != nil {
		return Message{}, fmt.Errorf("rendering submission email: %w", err)
	}

	text := fmt.Sprintf("Ви отримали нову заявку з контактної форми на сайті:\n\n"+
		"Ім'я: %s\nТелефон: %s\nКоментар: %s\nЧас: %s\n\n"+
		"Необхідно зв'язатися з клієнтом якнайшвидше.\n",
		d.Name, d.Phone, d.Message, ts)

	return Message{
		Subject:  SubmissionSubject,
		HTMLBody: buf.String(),
		TextBody: text,
	}, nil
}

// BuildTestMessage renders the message sent by the test-mail command.
func BuildTestMessage(now time.Time) Message {
	ts := now.Format(TimestampLayout)
	return Message{
		Subject:  "Тестове сповіщення formrelay",
		HTMLBody: "<p>Це тестове сповіщення. Налаштування SMTP працюють.</p><p>" + template.HTMLEscapeString(ts) + "</p>",
		TextBody: "Це тестове сповіщення. Налаштування SMTP працюють.\n" + ts + "\n",
	}
}
