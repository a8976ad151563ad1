package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyKZT Currency = "KZT"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyRUB Currency = "RUB"
)

// Status represents a customer's service tier
type Status string

const (
	StatusStandard Status = "Standard"
	StatusSalary   Status = "Salary"
	StatusPremium  Status = "Premium"
	StatusStudent  Status = "Student"
	StatusUnknown  Status = ""
)

// ParseStatus maps both the enum names used in API bodies and the Russian
// labels stored in the Clients table onto the Status enum.
func ParseStatus(s string) Status {
	switch s {
	case "Standard", "Стандартный клиент":
		return StatusStandard
	case "Salary", "Зарплатный клиент":
		return StatusSalary
	case "Premium", "Премиальный клиент":
		return StatusPremium
	case "Student", "Студент":
		return StatusStudent
	default:
		return StatusUnknown
	}
}

// Customer is the static context of one client
type Customer struct {
	Code       int             `json:"client_code"`
	Name       string          `json:"name"`
	Status     Status          `json:"status"`
	City       string          `json:"city"`
	AvgBalance decimal.Decimal `json:"avg_monthly_balance_KZT"`
	Age        *int            `json:"age,omitempty"`
}

// Transaction is a single card purchase, an outflow from the customer
type Transaction struct {
	CustomerCode int             `json:"client_code"`
	Date         time.Time       `json:"date"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     Currency        `json:"currency"`
}

// TransferDirection is the flow direction of a transfer
type TransferDirection string

const (
	DirectionIn  TransferDirection = "in"
	DirectionOut TransferDirection = "out"
)

// TransferType values form a controlled vocabulary
type TransferType string

const (
	TransferSalaryIn           TransferType = "salary_in"
	TransferStipendIn          TransferType = "stipend_in"
	TransferFamilyIn           TransferType = "family_in"
	TransferCardIn             TransferType = "card_in"
	TransferP2POut             TransferType = "p2p_out"
	TransferATMWithdrawal      TransferType = "atm_withdrawal"
	TransferLoanPaymentOut     TransferType = "loan_payment_out"
	TransferCCRepaymentOut     TransferType = "cc_repayment_out"
	TransferInstallmentOut     TransferType = "installment_payment_out"
	TransferDepositTopupOut    TransferType = "deposit_topup_out"
	TransferDepositWithdrawIn  TransferType = "deposit_withdraw_in"
	TransferDepositFXTopupOut  TransferType = "deposit_fx_topup_out"
	TransferDepositFXWithdraw  TransferType = "deposit_fx_withdraw_in"
	TransferFXBuy              TransferType = "fx_buy"
	TransferFXSell             TransferType = "fx_sell"
	TransferInvestIn           TransferType = "invest_in"
	TransferInvestOut          TransferType = "invest_out"
	TransferGoldBuyOut         TransferType = "gold_buy_out"
	TransferGoldSellIn         TransferType = "gold_sell_in"
)

// Transfer is a directed money movement
type Transfer struct {
	CustomerCode int               `json:"client_code"`
	Date         time.Time         `json:"date"`
	Type         TransferType      `json:"type"`
	Direction    TransferDirection `json:"direction"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     Currency          `json:"currency"`
}

// CustomerView is the in-memory composition scenarios read: the customer
// plus activity inside the analysis window.
type CustomerView struct {
	Customer     Customer
	Transactions []Transaction
	Transfers    []Transfer
	WindowDays   int
}

// DefaultWindowDays is the analysis window in days
const DefaultWindowDays = 90

// Priority is the coarse ranking bucket of a recommendation
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting: high > medium > low
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// Recommendation is one ranked product suggestion with its rendered push
type Recommendation struct {
	Product         string          `json:"product"`
	Push            string          `json:"push_notification"`
	Score           float64         `json:"score"`
	ExpectedBenefit decimal.Decimal `json:"expected_benefit"`
	Priority        Priority        `json:"priority"`
}
