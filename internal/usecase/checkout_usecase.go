package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/pricing"
	repo "app/internal/repository"
	"app/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// Orchestrateur de la soumission de commande: validation du formulaire,
// tarification, coupon, puis écriture transactionnelle commande + lignes.
type CheckoutUsecase struct {
	tx      repo.TransactionManager
	carts   repo.CartRepository
	coupons repo.CouponRepository
}

func NewCheckoutUsecase(tx repo.TransactionManager, carts repo.CartRepository, coupons repo.CouponRepository) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, carts: carts, coupons: coupons}
}

type SubmitOrderInput struct {
	Name       string
	Phone      string
	City       string
	Address    string
	CouponCode string
}

type SubmitOrderOutput struct {
	OrderNumber string        `json:"order_number"`
	Quote       pricing.Quote `json:"quote"`
}

// SubmitOrder exécute la séquence complète. Commande et lignes sont écrites
// dans une seule transaction: une commande ne peut pas exister sans ses
// lignes. L'incrément du coupon arrive après commit, en best-effort: son
// échec est journalisé mais ne remet pas la commande en cause (le compteur
// peut donc sous-compter, compromis assumé).
func (u *CheckoutUsecase) SubmitOrder(ctx context.Context, sessionID string, in SubmitOrderInput) (SubmitOrderOutput, error) {
	items, err := u.carts.Get(ctx, sessionID)
	if err != nil {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusInternalServerError, MsgOrderFailed)
	}
	if len(items) == 0 {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, MsgCartEmpty)
	}

	form := validator.CheckoutForm{
		Name:    in.Name,
		Phone:   in.Phone,
		City:    in.City,
		Address: in.Address,
	}
	if err := validator.ValidateCheckoutForm(form); err != nil {
		return SubmitOrderOutput{}, formErrorToHTTP(err)
	}

	// Coupon optionnel. Une erreur coupon est bloquante ici: le client
	// choisit de retirer le code ou de corriger, jamais d'application
	// silencieuse à 0.
	var discount int64
	var appliedCode *string
	if strings.TrimSpace(in.CouponCode) != "" {
		d, normalized, err := resolveCoupon(ctx, u.coupons, in.CouponCode, pricing.Subtotal(items), time.Now())
		if err != nil {
			return SubmitOrderOutput{}, err
		}
		discount = d
		appliedCode = &normalized
	}

	quote := pricing.ComputeTotals(items, strings.TrimSpace(in.City), discount)

	// Un code valide mais sans effet (réduction à 0 après arrondi) n'est ni
	// enregistré ni consommé: la commande est traitée comme sans coupon.
	if quote.Discount == 0 {
		appliedCode = nil
	}

	order := model.Order{
		CustomerName:    strings.TrimSpace(in.Name),
		CustomerPhone:   strings.TrimSpace(in.Phone),
		CustomerCity:    strings.TrimSpace(in.City),
		CustomerAddress: strings.TrimSpace(in.Address),
		Subtotal:        quote.Subtotal,
		ShippingCost:    quote.ShippingCost,
		DiscountAmount:  quote.Discount,
		TotalAmount:     quote.Total,
		CouponCode:      appliedCode,
		Status:          model.OrderStatusPending,
		PaymentMethod:   model.PaymentMethodCOD,
	}

	orderNumber, err := u.persistOrder(ctx, order, items)
	if err != nil {
		return SubmitOrderOutput{}, err
	}

	// Après commit. Incrément conditionnel côté serveur: la garde max_uses
	// est re-vérifiée à l'écriture, jamais de read-then-write.
	if appliedCode != nil {
		ok, err := u.coupons.RedeemIfAvailable(ctx, *appliedCode)
		if err != nil {
			log.Warnf("coupon %s: redemption failed after order %s: %v", *appliedCode, orderNumber, err)
		} else if !ok {
			log.Warnf("coupon %s: limit reached between validation and order %s", *appliedCode, orderNumber)
		}
	}

	if err := u.carts.Clear(ctx, sessionID); err != nil {
		// Le TTL finira le ménage
		log.Warnf("cart %s: clear failed after order %s: %v", sessionID, orderNumber, err)
	}

	return SubmitOrderOutput{OrderNumber: orderNumber, Quote: quote}, nil
}

// persistOrder écrit l'en-tête, décrémente les stocks et insère les lignes
// dans une transaction. Une collision de numéro (index unique) fait rejouer
// la transaction une fois avec un nouveau numéro.
func (u *CheckoutUsecase) persistOrder(ctx context.Context, order model.Order, items []model.CartItem) (string, error) {
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, model.OrderItem{
			ProductID:    it.ProductID,
			ProductName:  it.Name,
			ProductPrice: it.Price,
			Quantity:     it.Quantity,
			Size:         it.Size,
			Subtotal:     it.Price * it.Quantity,
		})
	}

	for attempt := 0; attempt < 2; attempt++ {
		order.OrderNumber = newOrderNumber()

		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			for _, it := range items {
				ok, err := r.Products().DecrementStockIfAvailable(ctx, it.ProductID, it.Quantity)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, MsgOrderFailed)
				}
				if !ok {
					return NewHTTPError(http.StatusBadRequest, "Stock insuffisant: "+it.Name)
				}
			}

			orderID, err := r.Orders().Create(ctx, order)
			if err != nil {
				// Remonté tel quel pour déclencher le retry
				return err
			}

			if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
				// Rollback: l'en-tête disparaît avec la transaction
				return NewHTTPError(http.StatusInternalServerError, MsgOrderFailed)
			}
			return nil
		})

		if err == nil {
			return order.OrderNumber, nil
		}
		if errors.Is(err, repo.ErrDuplicateOrderNumber) {
			continue
		}
		if he, ok := AsHTTPError(err); ok {
			return "", he
		}
		return "", NewHTTPError(http.StatusInternalServerError, MsgOrderFailed)
	}

	return "", NewHTTPError(http.StatusInternalServerError, MsgOrderFailed)
}

// Numéro public: BC-<horodatage UTC>-<suffixe aléatoire>. Triable par
// date, non devinable, unicité garantie par l'index et le retry.
func newOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("BC-%s-%s", time.Now().UTC().Format("20060102150405"), suffix)
}
