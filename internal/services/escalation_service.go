// internal/services/escalation_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/domora/kiosk-service/internal/constants"
	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/repositories"
	"github.com/domora/kiosk-service/internal/utils"
)

const escalationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: monospace; line-height: 1.5; }
  .container { border: 1px solid #ccc; padding: 15px; max-width: 600px; }
  h2 { margin-top: 0; }
  ul { list-style: none; padding: 0; }
  li { margin-bottom: 5px; }
</style>
</head>
<body>
  <div class="container">
    <h2>Building needs attention</h2>
    <ul>
      <li><strong>Building:</strong> %s</li>
      <li><strong>Reported:</strong> %s</li>
    </ul>
    <p>%s</p>
  </div>
</body>
</html>`

/*
EscalationService periodically scans the latest applied snapshots and
notifies the building's registered contact when a standing concern
persists: a collection rate below the cutoff, or too many open urgent
maintenance items. One notification per building per cooldown window.
*/
type EscalationService struct {
	displayRepo    repositories.KioskDisplayRepository
	manager        *WatchManager
	twilioClient   *twilio.RestClient
	sendgridClient *sendgrid.Client
	fromEmail      string
	fromPhone      string
	orgName        string
	cooldown       time.Duration

	mu           sync.Mutex
	lastNotified map[string]time.Time
}

func NewEscalationService(
	displayRepo repositories.KioskDisplayRepository,
	manager *WatchManager,
	twClient *twilio.RestClient,
	sgClient *sendgrid.Client,
	fromEmail, fromPhone, orgName string,
) *EscalationService {
	return &EscalationService{
		displayRepo:    displayRepo,
		manager:        manager,
		twilioClient:   twClient,
		sendgridClient: sgClient,
		fromEmail:      fromEmail,
		fromPhone:      fromPhone,
		orgName:        orgName,
		cooldown:       constants.EscalationCooldown,
		lastNotified:   make(map[string]time.Time),
	}
}

// RunEscalationCheck is wired to a cron schedule.
func (s *EscalationService) RunEscalationCheck(ctx context.Context) error {
	utils.Logger.Debug("Running kiosk escalation checks...")

	now := time.Now().UTC()
	for buildingID, snap := range s.manager.Snapshots() {
		if snap == nil {
			continue
		}

		reasons := escalationReasons(snap)
		if len(reasons) == 0 {
			continue
		}

		s.mu.Lock()
		last, seen := s.lastNotified[buildingID]
		onCooldown := seen && now.Sub(last) < s.cooldown
		if !onCooldown {
			s.lastNotified[buildingID] = now
		}
		s.mu.Unlock()
		if onCooldown {
			continue
		}

		if err := s.notify(ctx, buildingID, snap, reasons); err != nil {
			utils.Logger.WithError(err).Errorf("Escalation notify failed for building=%s", buildingID)
		}
	}
	return nil
}

func escalationReasons(snap *models.BuildingSnapshot) []string {
	var reasons []string
	if snap.Financial.CollectionRate < constants.CollectionRateCutoff {
		reasons = append(reasons, fmt.Sprintf(
			"Collection rate at %.0f%% (target %.0f%%)",
			snap.Financial.CollectionRate, constants.CollectionRateCutoff,
		))
	}
	if snap.Maintenance.UrgentCount >= constants.UrgentMaintenanceEscalationMin {
		reasons = append(reasons, fmt.Sprintf(
			"%d urgent maintenance items open", snap.Maintenance.UrgentCount,
		))
	}
	return reasons
}

func (s *EscalationService) notify(ctx context.Context, buildingID string, snap *models.BuildingSnapshot, reasons []string) error {
	displays, err := s.displayRepo.ListByBuildingID(ctx, buildingID)
	if err != nil {
		return err
	}

	email, phone := "", ""
	for _, d := range displays {
		if email == "" && d.NotifyEmail != "" {
			email = d.NotifyEmail
		}
		if phone == "" && d.NotifyPhone != "" {
			phone = d.NotifyPhone
		}
	}
	if email == "" && phone == "" {
		utils.Logger.Warnf("No escalation contact registered for building=%s", buildingID)
		return nil
	}

	buildingName := snap.Building.Name
	if buildingName == "" {
		buildingName = buildingID
	}
	body := strings.Join(reasons, "; ")
	subject := fmt.Sprintf("[%s] %s needs attention", s.orgName, buildingName)

	if phone != "" && s.twilioClient != nil {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(phone)
		params.SetFrom(s.fromPhone)
		params.SetBody(subject + " :: " + body)
		if _, smsErr := s.twilioClient.Api.CreateMessage(params); smsErr != nil {
			utils.Logger.WithError(smsErr).Warnf("Failed to send escalation SMS for building=%s", buildingID)
		}
	}

	if email != "" && s.sendgridClient != nil {
		from := mail.NewEmail(s.orgName, s.fromEmail)
		to := mail.NewEmail("", email)
		html := fmt.Sprintf(escalationEmailHTML, buildingName, time.Now().UTC().Format(time.RFC1123Z), body)
		msg := mail.NewSingleEmail(from, subject, to, body, html)
		if _, sgErr := s.sendgridClient.Send(msg); sgErr != nil {
			utils.Logger.WithError(sgErr).Warnf("Failed to send escalation email for building=%s", buildingID)
		}
	}

	return nil
}
