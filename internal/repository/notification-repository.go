package repository

import (
	"context"
	"time"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]domain.Notification, error)
	ListByRelated(ctx context.Context, userID, relatedID uint) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (n *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return n.db.WithContext(ctx).Create(notification).Error
}

func (n *notificationRepository) ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	var out []domain.Notification
	q := n.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (n *notificationRepository) ListByRelated(ctx context.Context, userID, relatedID uint) ([]domain.Notification, error) {
	var out []domain.Notification
	err := n.db.WithContext(ctx).
		Where("user_id = ? AND related_id = ?", userID, relatedID).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead only touches notifications owned by userID.
func (n *notificationRepository) MarkRead(ctx context.Context, userID, notificationID uint) error {
	now := time.Now()
	res := n.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
