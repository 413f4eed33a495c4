package commission

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/nadeos/bmd-exporter/internal/commission/domain"
	"github.com/nadeos/bmd-exporter/internal/config"
	"github.com/nadeos/bmd-exporter/internal/providers/email"
	"go.uber.org/zap"
)

const mailTemplate = "commission"

// MailDispatcher sends one statement notification per commission.
type MailDispatcher struct {
	log     *zap.Logger
	svc     *Service
	mailer  email.Provider
	baseURL string
}

func NewMailDispatcher(log *zap.Logger, svc *Service, mailer email.Provider, cfg config.Config) *MailDispatcher {
	return &MailDispatcher{
		log:     log.Named("commission.mail"),
		svc:     svc,
		mailer:  mailer,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// SendReports mails every commission of the month its statement link.
// testmail, when set, overrides each recipient so a dry run never reaches
// real contacts.
func (d *MailDispatcher) SendReports(ctx context.Context, month time.Time, groupPrefix, testmail string) error {
	commissions, err := d.svc.List(ctx, month, groupPrefix)
	if err != nil {
		return err
	}
	if len(commissions) == 0 {
		return domain.ErrNoCommissions
	}

	for _, c := range commissions {
		to := c.Contact.Email
		if testmail != "" {
			to = testmail
		}

		data := map[string]any{
			"subject":    fmt.Sprintf("Ihre Provisionsgutschrift %d-%d", c.Year, c.Month),
			"salutation": c.Contact.Salutation,
			"firstname":  c.Contact.Firstname,
			"lastname":   c.Contact.Lastname,
			"url":        d.statementURL(c),
			"period":     fmt.Sprintf("%d-%d", c.Year, c.Month),
		}

		if err := d.mailer.SendTemplate(ctx, []string{to}, mailTemplate, data); err != nil {
			return fmt.Errorf("send commission mail for group %s: %w", c.GroupName, err)
		}

		d.log.Info("commission mail sent",
			zap.String("group", c.GroupName),
			zap.String("period", fmt.Sprintf("%d-%d", c.Year, c.Month)),
		)
	}

	return nil
}

func (d *MailDispatcher) statementURL(c *domain.Commission) string {
	group := base64.StdEncoding.EncodeToString([]byte(c.GroupName))
	return fmt.Sprintf("%s/commissions/pdf?year=%d&month=%d&group=%s", d.baseURL, c.Year, c.Month, group)
}
