package model

import (
	"github.com/shopspring/decimal"

	"venuestream/internal/model/enum"
)

// AccountFields is the field schema of an account balance subscription.
var AccountFields = []string{
	"AVAILABLE_CASH",
	"AVAILABLE_TO_DEAL",
	"DEPOSIT",
	"EQUITY",
	"FUNDS",
	"MARGIN",
	"PNL",
}

// AccountUpdate carries balance figures of one account.
type AccountUpdate struct {
	AccountID       string           `mapstructure:"-" json:"accountId"`
	AvailableCash   *decimal.Decimal `mapstructure:"AVAILABLE_CASH" json:"availableCash,omitempty"`
	AvailableToDeal *decimal.Decimal `mapstructure:"AVAILABLE_TO_DEAL" json:"availableToDeal,omitempty"`
	Deposit         *decimal.Decimal `mapstructure:"DEPOSIT" json:"deposit,omitempty"`
	Equity          *decimal.Decimal `mapstructure:"EQUITY" json:"equity,omitempty"`
	Funds           *decimal.Decimal `mapstructure:"FUNDS" json:"funds,omitempty"`
	Margin          *decimal.Decimal `mapstructure:"MARGIN" json:"margin,omitempty"`
	PnL             *decimal.Decimal `mapstructure:"PNL" json:"pnl,omitempty"`
}

func (*AccountUpdate) Kind() enum.UpdateKind { return enum.UpdateKindAccount }
