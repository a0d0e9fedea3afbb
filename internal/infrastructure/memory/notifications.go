package memory

import (
	"cmp"
	"context"
	"time"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

var (
	_ repository.NotificationRepository = (*notificationRepo)(nil)
	_ repository.BudgetRepository       = (*budgetRepo)(nil)
	_ repository.AuditRepository        = (*auditRepo)(nil)
)

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	err := r.s.lock("notifications.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.notifications[n.ID] = *n
	return nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	err := r.s.lock("notifications.list_by_user")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	list := sortedValues(r.s.st.notifications,
		func(n entity.Notification) bool { return n.UserID == userID },
		byCreatedDesc(func(n entity.Notification) (int64, string) { return n.CreatedAt.UnixNano(), n.ID }))
	return page(list, limit, 0), nil
}

func (r *notificationRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	err := r.s.lock("notifications.unread_count")
	defer r.s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	var n int
	for _, x := range r.s.st.notifications {
		if x.UserID == userID && !x.Read {
			n++
		}
	}
	return n, nil
}

func markRead(n *entity.Notification, now time.Time) {
	n.Read = true
	n.Viewed = true
	if n.ReadAt == nil {
		n.ReadAt = &now
	}
	if n.ViewedAt == nil {
		n.ViewedAt = &now
	}
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	err := r.s.lock("notifications.mark_read")
	defer r.s.mu.Unlock()
	if err != nil {
		return false, err
	}
	n, ok := r.s.st.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	markRead(&n, time.Now())
	r.s.st.notifications[id] = n
	return true, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	err := r.s.lock("notifications.mark_all_read")
	defer r.s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	var count int64
	now := time.Now()
	for id, n := range r.s.st.notifications {
		if n.UserID == userID && !n.Read {
			markRead(&n, now)
			r.s.st.notifications[id] = n
			count++
		}
	}
	return count, nil
}

type budgetRepo struct{ s *Store }

func (r *budgetRepo) GetConfig(ctx context.Context, companyID string) (*entity.BudgetConfig, error) {
	err := r.s.lock("budgets.get_config")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	c, ok := r.s.st.budgets[companyID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *budgetRepo) SaveConfig(ctx context.Context, cfg *entity.BudgetConfig) error {
	err := r.s.lock("budgets.save_config")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	cp := *cfg
	if cur, ok := r.s.st.budgets[cfg.CompanyID]; ok {
		cp.LastNumber = cur.LastNumber
	}
	r.s.st.budgets[cfg.CompanyID] = cp
	return nil
}

func (r *budgetRepo) ListConfigs(ctx context.Context, limit, offset int) ([]*entity.BudgetConfig, error) {
	err := r.s.lock("budgets.list_configs")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	list := sortedValues(r.s.st.budgets,
		func(c entity.BudgetConfig) bool { return c.BusinessName != "" },
		func(a, b entity.BudgetConfig) int {
			return cmp.Or(cmp.Compare(a.BusinessName, b.BusinessName), cmp.Compare(a.CompanyID, b.CompanyID))
		})
	return page(list, limit, offset), nil
}

func (r *budgetRepo) NextNumber(ctx context.Context, companyID string) (int, error) {
	err := r.s.lock("budgets.next_number")
	defer r.s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	c := r.s.st.budgets[companyID]
	c.CompanyID = companyID
	c.LastNumber++
	r.s.st.budgets[companyID] = c
	return c.LastNumber, nil
}

type auditRepo struct{ s *Store }

func (r *auditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	err := r.s.lock("audit.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.audit = append(r.s.st.audit, *e)
	return nil
}

func (r *auditRepo) List(ctx context.Context, limit, offset int) ([]*entity.AuditEntry, error) {
	err := r.s.lock("audit.list")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.AuditEntry, 0, len(r.s.st.audit))
	for i := len(r.s.st.audit) - 1; i >= 0; i-- {
		e := r.s.st.audit[i]
		out = append(out, &e)
	}
	return page(out, limit, offset), nil
}

func (r *notificationRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	err := r.s.lock("notifications.delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return false, err
	}
	n, ok := r.s.st.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	delete(r.s.st.notifications, id)
	return true, nil
}
