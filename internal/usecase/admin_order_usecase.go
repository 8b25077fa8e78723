package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// Back-office commandes: liste filtrée, changement de statut, tunnel.
type AdminOrderUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	auditRepo  repo.AuditLogRepository
}

func NewAdminOrderUsecase(orders repo.OrderRepository, orderItems repo.OrderItemRepository, auditRepo repo.AuditLogRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{orders: orders, orderItems: orderItems, auditRepo: auditRepo}
}

type AdminOrderListInput struct {
	Filter repo.AdminOrderListFilter
	// Filtre additionnel: commandes contenant un article de cette catégorie
	Category string
}

type AdminOrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (AdminOrderListOutput, error) {
	if in.Filter.Page < 0 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}

	// Le filtre catégorie passe par les lignes: résolu en identifiants
	// avant la requête, pour que total et pagination restent justes.
	if c := strings.TrimSpace(in.Category); c != "" {
		ids, err := u.orderItems.OrderIDsByCategory(ctx, c)
		if err != nil {
			return AdminOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(ids) == 0 {
			return AdminOrderListOutput{Orders: []OrderOutput{}}, nil
		}
		in.Filter.OrderIDs = ids
	}

	orders, total, err := u.orders.ListAdmin(ctx, in.Filter)
	if err != nil {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return AdminOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toOrderOutput(o, items))
	}

	return AdminOrderListOutput{Orders: outs, Total: total}, nil
}

type AdminUpdateOrderInput struct {
	Status string
	Notes  string
}

var validStatuses = map[model.OrderStatus]bool{
	model.OrderStatusPending:   true,
	model.OrderStatusConfirmed: true,
	model.OrderStatusShipped:   true,
	model.OrderStatusDelivered: true,
	model.OrderStatusCanceled:  true,
}

// UpdateStatus change le statut et les notes d'une commande, avec trace
// d'audit avant/après.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorEmail string, orderID int64, in AdminUpdateOrderInput) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	status := model.OrderStatus(strings.TrimSpace(in.Status))
	if !validStatuses[status] {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	before, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.orders.UpdateStatus(ctx, orderID, status, in.Notes); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actorEmail, before, status, in.Notes)
	return nil
}

// Trace best-effort: un échec d'audit ne doit pas annuler l'opération.
func (u *AdminOrderUsecase) audit(ctx context.Context, actorEmail string, before model.Order, status model.OrderStatus, notes string) {
	beforeJSON, _ := json.Marshal(map[string]interface{}{"status": before.Status, "notes": before.Notes})
	afterJSON, _ := json.Marshal(map[string]interface{}{"status": status, "notes": notes})

	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorEmail:   actorEmail,
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   before.ID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    time.Now(),
	})
}

type AdminStatsOutput struct {
	// Tunnel: nombre de commandes par statut
	StatusCounts []repo.StatusCount `json:"status_counts"`
	// Chiffre d'affaires des commandes livrées (MAD)
	DeliveredRevenue int64 `json:"delivered_revenue"`
}

func (u *AdminOrderUsecase) Stats(ctx context.Context) (AdminStatsOutput, error) {
	counts, err := u.orders.CountByStatus(ctx)
	if err != nil {
		return AdminStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	revenue, err := u.orders.DeliveredRevenue(ctx)
	if err != nil {
		return AdminStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return AdminStatsOutput{StatusCounts: counts, DeliveredRevenue: revenue}, nil
}
