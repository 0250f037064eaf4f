package orders

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// fieldErrors сопоставляет поле запроса с доменной ошибкой валидации.
var fieldErrors = map[string]map[string]error{
	"ClientReferenceCode": {"required": domain.ErrClientReferenceCodeRequired, "max": domain.ErrClientReferenceCodeTooLong},
	"Order":               {"required": domain.ErrOrderPayloadRequired},
	"Description":         {"max": domain.ErrDescriptionTooLong},
	"ItemCount":           {"gte": domain.ErrItemCountNegative},
	"TotalAmount":         {"nonneg": domain.ErrTotalAmountNegative, "money": domain.ErrAmountOutOfRange},
	"Items":               {"required": domain.ErrItemsRequired, "min": domain.ErrItemsRequired},
	"ItemID":              {"required": domain.ErrItemIDRequired},
	"UnitPrice":           {"nonneg": domain.ErrItemPriceInvalid, "money": domain.ErrAmountOutOfRange},
	"Units":               {"gt": domain.ErrItemUnitsInvalid},
	"TotalPrice":          {"nonneg": domain.ErrItemTotalInvalid, "money": domain.ErrAmountOutOfRange},
}

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal проверяется тегами nonneg и money по точному строковому виду, без float64.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("nonneg", decimalRule(func(d decimal.Decimal) bool { return !d.IsNegative() }))
	_ = v.RegisterValidation("money", decimalRule(domain.MoneyFits))
	// В сообщениях используем имена полей как на проводе: clientReferenceCode, order.items[0].units.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := field.Name
		if name == "ItemID" {
			return "itemId"
		}
		return strings.ToLower(name[:1]) + name[1:]
	})
	return v
}

func decimalRule(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && ok(d)
	}
}

// validateSubmission проверяет запрос до обращения к хранилищу.
// Возвращает ошибку, оборачивающую domain.ErrInvalidInput и все нарушения по полям.
func (s *Service) validateSubmission(req *domain.SubmitOrderRequest) error {
	var problems []error

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		for _, fe := range verrs {
			problems = append(problems, translateFieldError(fe))
		}
	}

	if req.Order != nil {
		for i := range req.Order.Items {
			item := &req.Order.Items[i]
			if strings.TrimSpace(item.ItemID) == "" {
				continue
			}
			parsed, err := uuid.Parse(strings.TrimSpace(item.ItemID))
			if err != nil {
				problems = append(problems, fmt.Errorf("order.items[%d].itemId: %w", i, domain.ErrItemIDMalformed))
				continue
			}
			item.ItemID = parsed.String()
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(problems...))
}

func translateFieldError(fe validator.FieldError) error {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}

	if byTag, ok := fieldErrors[fe.StructField()]; ok {
		if err, ok := byTag[fe.Tag()]; ok {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return fmt.Errorf("%s: failed on %q", path, fe.Tag())
}

// validateOrderID нормализует идентификатор заказа к каноническому виду UUID.
func validateOrderID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrOrderIDRequired)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrOrderIDMalformed)
	}
	return parsed.String(), nil
}
