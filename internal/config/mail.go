package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

// DefaultSMTPPort is used when SMTP_PORT is not set.
const DefaultSMTPPort = 587

// implicitTLSPort is the SMTPS port; any other port negotiates STARTTLS.
const implicitTLSPort = 465

// MailConfig holds the delivery settings for operator notifications.
// Host, User, Password and Recipient are all required for a send to be attempted.
type MailConfig struct {
	Host      string `envconfig:"SMTP_HOST" validate:"required"`
	Port      int    `envconfig:"SMTP_PORT" default:"587"`
	User      string `envconfig:"SMTP_USER" validate:"required"`
	Password  string `envconfig:"SMTP_PASS" validate:"required"`
	Recipient string `envconfig:"RECEIVING_EMAIL" validate:"required"`
	FromName  string `envconfig:"MAIL_FROM_NAME" default:"Ikigai Website"`
}

var (
	mailValidatorOnce sync.Once
	mailValidator     *validator.Validate
)

// fieldValidator reports validation failures by env-var name so that the
// missing set can be logged without touching the values.
func fieldValidator() *validator.Validate {
	mailValidatorOnce.Do(func() {
		mailValidator = validator.New()
		mailValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("envconfig"); name != "" {
				return name
			}
			return f.Name
		})
	})
	return mailValidator
}

// Missing returns the env-var names of required delivery settings that are empty.
// A nil result means the configuration is complete.
func (m MailConfig) Missing() []string {
	err := fieldValidator().Struct(m)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

// SMTPPort returns Port, or DefaultSMTPPort when unset.
func (m MailConfig) SMTPPort() int {
	if m.Port <= 0 {
		return DefaultSMTPPort
	}
	return m.Port
}

// Secure reports whether the connection uses implicit TLS from the first byte.
func (m MailConfig) Secure() bool {
	return m.SMTPPort() == implicitTLSPort
}
