package services

import (
	"fmt"
	"log"
	"time"

	"editorial-api/config"
	"editorial-api/models"

	"gorm.io/gorm"
)

// Notifier consumes domain events emitted after successful transitions and
// decisions. Delivery is fire-and-forget: a failing notifier must never roll
// back the state change it reports on.
type Notifier interface {
	ManuscriptTransitioned(manuscript *models.Manuscript, state *models.WorkflowState, actor *models.User)
	DecisionRecorded(manuscript *models.Manuscript, decision *models.Decision, actor *models.User)
}

// InboxNotifier writes a notification row for the corresponding author and
// sends a best-effort email.
type InboxNotifier struct {
	db *gorm.DB
}

func NewInboxNotifier(db *gorm.DB) *InboxNotifier {
	return &InboxNotifier{db: db}
}

func (n *InboxNotifier) ManuscriptTransitioned(manuscript *models.Manuscript, state *models.WorkflowState, actor *models.User) {
	title := "Manuscript status updated"
	message := fmt.Sprintf("%q moved to %s", manuscript.Title, state.Name)
	n.deliver(manuscript, title, message, "info")
}

func (n *InboxNotifier) DecisionRecorded(manuscript *models.Manuscript, decision *models.Decision, actor *models.User) {
	title := "Editorial decision recorded"
	message := fmt.Sprintf("Decision %q recorded for %q", decision.Decision, manuscript.Title)
	n.deliver(manuscript, title, message, "success")
}

func (n *InboxNotifier) deliver(manuscript *models.Manuscript, title, message, kind string) {
	manuscriptID := manuscript.ManuscriptID
	notification := models.Notification{
		UserID:              manuscript.CorrespondingAuthorID,
		Title:               title,
		Message:             message,
		Type:                kind,
		RelatedManuscriptID: &manuscriptID,
		CreateAt:            time.Now(),
	}
	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to write notification for manuscript %d: %v", manuscriptID, err)
	}

	go n.sendEmail(manuscript.CorrespondingAuthorID, title, message)
}

func (n *InboxNotifier) sendEmail(userID int, subject, body string) {
	var user models.User
	if err := n.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		log.Printf("Warning: notification email skipped, user %d not found: %v", userID, err)
		return
	}
	html := fmt.Sprintf("<p>Dear %s,</p><p>%s</p>", user.FullName(), body)
	if err := config.SendMail([]string{user.Email}, subject, html); err != nil {
		log.Printf("Warning: failed to send notification email to %s: %v", user.Email, err)
	}
}

// nopNotifier is used when no notifier is wired, e.g. in tests.
type nopNotifier struct{}

func (nopNotifier) ManuscriptTransitioned(*models.Manuscript, *models.WorkflowState, *models.User) {}
func (nopNotifier) DecisionRecorded(*models.Manuscript, *models.Decision, *models.User)           {}
