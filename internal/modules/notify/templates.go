// Package notify turns ranked scenario outcomes into push-notification
// strings: a closed template registry, KZT-aware formatters, and the
// tone-of-voice validator every outgoing message passes through.
package notify

// GenericText is the fallback used when no template matches a product
const GenericText = "Доступен новый продукт. Узнать подробнее?"

// Template is one closed registry entry. Text is the primary variant;
// WithAmount, when set, is preferred whenever every key in AmountKeys
// was filled from real scenario facts rather than defaults.
type Template struct {
	Key        string
	Text       string
	WithAmount string
	AmountKeys []string
}

var registry = map[string]Template{
	"travel_card": {
		Key:  "travel_card",
		Text: "{name}, в {month} у вас {trip_count} поездок на такси на {amount} ₸. С тревел-картой вернули бы {cashback} ₸ кешбэком. Хотите оформить?",
	},
	"premium_card": {
		Key:  "premium_card",
		Text: "{name}, у вас стабильно крупный остаток {balance} ₸ и траты в ресторанах. Премиальная карта даст больше кешбэка и бесплатные снятия. Оформить карту.",
	},
	"credit_card": {
		Key:        "credit_card",
		Text:       "{name}, ваши топ-категории — {cat1}, {cat2}, {cat3}. Кредитная карта вернёт до {percent}% именно там. Оформить карту.",
		WithAmount: "{name}, в этом месяце на онлайн-покупки ушло {amount} ₸. Карта с кешбэком вернула бы {cashback} ₸. Открыть карту.",
		AmountKeys: []string{"amount", "cashback"},
	},
	"currency_exchange": {
		Key:        "currency_exchange",
		Text:       "{name}, вы часто платите в {fx_curr}. В приложении выгодный обмен и авто-покупка по курсу. Настроить обмен.",
		WithAmount: "{name}, в {month} вы провели операции на {amount} ₸ в {fx_curr}. Выгодный обмен в приложении сэкономил бы {savings} ₸. Подключить.",
		AmountKeys: []string{"amount", "savings"},
	},
	"savings_deposit": {
		Key:  "savings_deposit",
		Text: "{name}, у вас свободно {balance} ₸ на карте. Разместите их на вкладе — удобно копить и получать доход. Открыть вклад.",
	},
	"accumulation_deposit": {
		Key:  "accumulation_deposit",
		Text: "{name}, за последние {months} месяца у вас остаётся от {min_balance} ₸. На вкладе они работали бы на вас. Посмотреть варианты.",
	},
	"multi_currency_deposit": {
		Key:        "multi_currency_deposit",
		Text:       "{name}, планируете траты в {fx_curr}? На мультивалютном вкладе можно накопить быстрее. Настроить вклад.",
		WithAmount: "{name}, храните {balance} ₸ на карте. На мультивалютном вкладе это даст вознаграждение уже через {period}. Попробовать.",
		AmountKeys: []string{"balance"},
	},
	"investments": {
		Key:        "investments",
		Text:       "{name}, попробуйте инвестиции с низким порогом — от {amount} ₸ и без комиссии на старт. Открыть счёт.",
		WithAmount: "{name}, вы накопили {balance} ₸. Инвестиции помогут сохранить и приумножить средства. Узнать подробнее.",
		AmountKeys: []string{"balance"},
	},
	"gold_bars": {
		Key:  "gold_bars",
		Text: "{name}, у вас {balance} ₸ свободных средств. Золотые слитки 999,9 пробы помогут сохранить их стоимость. Посмотреть условия.",
	},
	"cash_credit": {
		Key:  "cash_credit",
		Text: "{name}, если нужен запас на крупные траты — можно оформить кредит наличными до {limit} ₸ с выплатами {terms}. Узнать лимит.",
	},
	"generic": {
		Key:  "generic",
		Text: GenericText,
	},
}

// Lookup returns the template for a key
func Lookup(key string) (Template, bool) {
	t, ok := registry[key]
	return t, ok
}

// TemplateKeys lists the registered keys; used by configuration checks
func TemplateKeys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	return keys
}
