package notify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/modules/scenarios"
)

// placeholderDefaults backs every placeholder a template can name, so
// rendering never fails on a sparse facts map.
var placeholderDefaults = map[string]string{
	"amount":      "50" + NBSP + "000",
	"cashback":    "2" + NBSP + "000",
	"balance":     "1" + NBSP + "000" + NBSP + "000",
	"profit":      "150" + NBSP + "000",
	"trip_count":  "5",
	"percent":     "10",
	"fx_curr":     "USD",
	"savings":     "5" + NBSP + "000",
	"months":      "3",
	"min_balance": "500" + NBSP + "000",
	"period":      "месяц",
	"limit":       "2" + NBSP + "000" + NBSP + "000",
	"terms":       "до 24 месяцев",
	"cat1":        "онлайн-покупки",
	"cat2":        "доставка",
	"cat3":        "развлечения",
}

var placeholderPattern = regexp.MustCompile(`\{([a-z0-9_]+)\}`)

// Renderer resolves templates, interpolates scenario facts and runs
// the result through the tone-of-voice validator.
type Renderer struct {
	log zerolog.Logger
	now func() time.Time
}

func NewRenderer(log zerolog.Logger) *Renderer {
	return &Renderer{
		log: log.With().Str("component", "renderer").Logger(),
		now: time.Now,
	}
}

// Render produces the validated push text for one scenario outcome.
// An unregistered template key falls back to the generic message.
func (r *Renderer) Render(customerName, templateKey string, res scenarios.Result) string {
	tpl, ok := Lookup(templateKey)
	if !ok {
		r.log.Warn().Str("template", templateKey).Msg("template miss, using generic")
		tpl = registry["generic"]
	}

	ctx := r.placeholderContext(customerName, templateKey, res.Facts)

	text := tpl.Text
	if tpl.WithAmount != "" && factBacked(ctx, tpl.AmountKeys) {
		text = tpl.WithAmount
	}

	message := placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		key := token[1 : len(token)-1]
		if v, ok := ctx[key]; ok {
			return v
		}
		if v, ok := placeholderDefaults[key]; ok {
			return v
		}
		return token
	})

	return Validate(message)
}

// placeholderContext maps scenario facts onto the placeholder names the
// templates use. Keys absent here fall through to the static defaults.
func (r *Renderer) placeholderContext(customerName, templateKey string, facts map[string]any) map[string]string {
	ctx := map[string]string{
		"month": Month(r.now()),
	}
	if customerName != "" {
		ctx["name"] = customerName
	} else {
		ctx["name"] = "Клиент"
	}

	putMoney := func(key, factKey string) {
		if d, ok := facts[factKey].(decimal.Decimal); ok {
			ctx[key] = Money(d)
		}
	}

	putMoney("balance", scenarios.FactBalance)

	switch templateKey {
	case "travel_card":
		putMoney("amount", scenarios.FactTravelSum)
		putMoney("cashback", scenarios.FactCashback)
		if n, ok := facts[scenarios.FactTripCount].(int); ok {
			ctx["trip_count"] = strconv.Itoa(n)
		}
	case "premium_card":
		putMoney("cashback", scenarios.FactCashback)
	case "credit_card":
		putMoney("amount", scenarios.FactOnlineSum)
		putMoney("cashback", scenarios.FactOnlineCashback)
		if n, ok := facts[scenarios.FactPercent].(int); ok {
			ctx["percent"] = Percent(n)
		}
		if cats, ok := facts[scenarios.FactTopCategories].([]string); ok {
			for i, cat := range cats {
				if i >= 3 {
					break
				}
				ctx["cat"+strconv.Itoa(i+1)] = strings.ToLower(cat)
			}
		}
	case "currency_exchange", "multi_currency_deposit":
		putMoney("amount", scenarios.FactFXSum)
		putMoney("savings", scenarios.FactSavings)
		if cur, ok := facts[scenarios.FactFXCurrency].(string); ok {
			ctx["fx_curr"] = cur
		}
	case "accumulation_deposit":
		putMoney("min_balance", scenarios.FactMinBalance)
		if n, ok := facts[scenarios.FactMonths].(int); ok {
			ctx["months"] = strconv.Itoa(n)
		}
	case "investments":
		// the product's entry threshold, not a customer fact
		ctx["amount"] = "6"
	case "cash_credit":
		putMoney("limit", scenarios.FactCreditLimit)
		if terms, ok := facts[scenarios.FactCreditTerms].(string); ok {
			ctx["terms"] = terms
		}
	}

	return ctx
}

// factBacked reports whether every key was filled from facts, which
// gates the with-amount template variant.
func factBacked(ctx map[string]string, keys []string) bool {
	for _, k := range keys {
		if _, ok := ctx[k]; !ok {
			return false
		}
	}
	return true
}
