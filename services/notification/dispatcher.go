package notification

import (
	"context"
	"fmt"

	notificationRepo "github.com/ConteMartin/PASTO/database/repository/notification"
	"github.com/ConteMartin/PASTO/models"
	"github.com/ConteMartin/PASTO/utils"

	"go.uber.org/zap"
)

// DefaultDispatcher is the production Dispatcher: it persists one record
// per transition and hands it to the push queue on a best-effort basis.
type DefaultDispatcher struct {
	Repo notificationRepo.NotificationRepository
	Push PushEnqueuer // optional; nil disables push delivery
}

// serviceLabels are the user-facing names of the service types.
var serviceLabels = map[string]string{
	models.ServiceGrassCutting: "corte de césped",
	models.ServicePruning:      "poda",
	models.ServiceCleaning:     "limpieza",
	models.ServiceMaintenance:  "mantenimiento",
}

func serviceLabel(serviceType string) string {
	if l, ok := serviceLabels[serviceType]; ok {
		return l
	}
	return serviceType
}

// buildNotification maps a transition to its single recipient and message.
// A nil return means the transition notifies nobody.
func buildNotification(req *models.ServiceRequest, to string) *models.Notification {
	label := serviceLabel(req.ServiceType)

	var recipient, title, message string
	switch to {
	case models.StatusAccepted:
		recipient = req.ClientID
		title = "Solicitud aceptada"
		message = fmt.Sprintf("Un jardinero aceptó tu solicitud de %s.", label)
	case models.StatusOnWay:
		recipient = req.ClientID
		title = "Jardinero en camino"
		message = "El jardinero está en camino a tu domicilio."
	case models.StatusInProgress:
		recipient = req.ClientID
		title = "Trabajo en curso"
		message = fmt.Sprintf("El jardinero comenzó a trabajar en tu solicitud de %s.", label)
	case models.StatusCompleted:
		recipient = req.ClientID
		title = "Trabajo completado"
		message = fmt.Sprintf("Tu solicitud de %s fue completada. ¡Ya podés calificar el servicio!", label)
	case models.StatusCancelled:
		// Cancellation is client-driven; the counterparty is the assigned
		// gardener, if any. An unassigned cancellation notifies nobody.
		if req.GardenerID == nil {
			return nil
		}
		recipient = *req.GardenerID
		title = "Solicitud cancelada"
		message = fmt.Sprintf("El cliente canceló la solicitud de %s.", label)
	default:
		return nil
	}

	return &models.Notification{
		UserID:  recipient,
		Type:    "service_update",
		Title:   title,
		Message: message,
		Data: map[string]string{
			"service_id": req.ID,
			"status":     to,
		},
	}
}

// OnTransition creates at most one notification for the transition. Any
// failure here is logged and swallowed; the state change already happened
// and must not be rolled back or failed on account of its side effect.
func (d *DefaultDispatcher) OnTransition(ctx context.Context, req *models.ServiceRequest, from, to, actorID string) {
	logger := utils.GetLogger()

	n := buildNotification(req, to)
	if n == nil {
		return
	}

	if _, err := d.Repo.Create(ctx, n); err != nil {
		logger.Error("failed to create transition notification",
			zap.String("serviceId", req.ID),
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err))
		return
	}

	logger.Info("transition notification created",
		zap.String("serviceId", req.ID),
		zap.String("recipient", n.UserID),
		zap.String("to", to))

	if d.Push == nil {
		return
	}
	// Delivery is fire-and-forget; the record is already durable.
	if err := d.Push.Enqueue(ctx, *n); err != nil {
		logger.Warn("failed to enqueue push delivery",
			zap.String("notificationId", n.ID),
			zap.Error(err))
	}
}

// ListForUser returns the user's notification feed, newest first.
func (d *DefaultDispatcher) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := d.Repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead flips the read flag, write-once.
func (d *DefaultDispatcher) MarkRead(ctx context.Context, id, userID string) error {
	matched, err := d.Repo.MarkRead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}
