package model

import (
	"time"

	"github.com/shopspring/decimal"

	"venuestream/internal/model/enum"
)

// Trade subscription sub-keys. Each carries a JSON encoded payload.
const (
	TradeFieldConfirms     = "CONFIRMS"
	TradeFieldPosition     = "OPU"
	TradeFieldWorkingOrder = "WOU"
)

// TradeFields is the field schema of a trade subscription.
var TradeFields = []string{
	TradeFieldConfirms,
	TradeFieldPosition,
	TradeFieldWorkingOrder,
}

type DealStatus string

const (
	DealStatusAccepted DealStatus = "ACCEPTED"
	DealStatusRejected DealStatus = "REJECTED"
)

type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

type PositionStatus string

const (
	PositionStatusOpen    PositionStatus = "OPEN"
	PositionStatusUpdated PositionStatus = "UPDATED"
	PositionStatusAmended PositionStatus = "AMENDED"
	PositionStatusClosed  PositionStatus = "CLOSED"
	PositionStatusDeleted PositionStatus = "DELETED"
)

// ConfirmationStatus is the state of the deal a confirmation refers to.
type ConfirmationStatus string

const (
	ConfirmationStatusAmended         ConfirmationStatus = "AMENDED"
	ConfirmationStatusClosed          ConfirmationStatus = "CLOSED"
	ConfirmationStatusDeleted         ConfirmationStatus = "DELETED"
	ConfirmationStatusOpen            ConfirmationStatus = "OPEN"
	ConfirmationStatusPartiallyClosed ConfirmationStatus = "PARTIALLY_CLOSED"
)

type OrderType string

const (
	OrderTypeLimit OrderType = "LIMIT"
	OrderTypeStop  OrderType = "STOP"
)

type TimeInForce string

const (
	TimeInForceGoodTillCancelled TimeInForce = "GOOD_TILL_CANCELLED"
	TimeInForceGoodTillDate      TimeInForce = "GOOD_TILL_DATE"
)

// AffectedDeal is a deal touched by a confirmed operation.
type AffectedDeal struct {
	DealID string         `mapstructure:"dealId" json:"dealId"`
	Status PositionStatus `mapstructure:"status" json:"status" validate:"omitempty,oneof=OPENED OPEN UPDATED AMENDED CLOSED DELETED PARTIALLY_CLOSED FULLY_CLOSED"`
}

// DealConfirmation reports the outcome of a dealing request.
type DealConfirmation struct {
	AccountID      string             `mapstructure:"-" json:"accountId"`
	DealID         string             `mapstructure:"dealId" json:"dealId,omitempty"`
	DealReference  string             `mapstructure:"dealReference" json:"dealReference,omitempty"`
	DealStatus     DealStatus         `mapstructure:"dealStatus" json:"dealStatus,omitempty" validate:"omitempty,oneof=ACCEPTED REJECTED"`
	Direction      Direction          `mapstructure:"direction" json:"direction,omitempty" validate:"omitempty,oneof=BUY SELL"`
	Epic           string             `mapstructure:"epic" json:"epic,omitempty"`
	Expiry         string             `mapstructure:"expiry" json:"expiry,omitempty"`
	Level          *decimal.Decimal   `mapstructure:"level" json:"level,omitempty"`
	LimitLevel     *decimal.Decimal   `mapstructure:"limitLevel" json:"limitLevel,omitempty"`
	StopLevel      *decimal.Decimal   `mapstructure:"stopLevel" json:"stopLevel,omitempty"`
	Size           *decimal.Decimal   `mapstructure:"size" json:"size,omitempty"`
	Status         ConfirmationStatus `mapstructure:"status" json:"status,omitempty" validate:"omitempty,oneof=AMENDED CLOSED DELETED OPEN PARTIALLY_CLOSED"`
	Reason         string             `mapstructure:"reason" json:"reason,omitempty"`
	GuaranteedStop *bool              `mapstructure:"guaranteedStop" json:"guaranteedStop,omitempty"`
	Date           *time.Time         `mapstructure:"date" json:"date,omitempty"`
	AffectedDeals  []AffectedDeal     `mapstructure:"affectedDeals" json:"affectedDeals,omitempty" validate:"dive"`
}

func (*DealConfirmation) Kind() enum.UpdateKind { return enum.UpdateKindDealConfirmation }

// PositionUpdate reports a change of an open position.
type PositionUpdate struct {
	AccountID      string           `mapstructure:"-" json:"accountId"`
	DealID         string           `mapstructure:"dealId" json:"dealId,omitempty"`
	DealIDOrigin   string           `mapstructure:"dealIdOrigin" json:"dealIdOrigin,omitempty"`
	DealReference  string           `mapstructure:"dealReference" json:"dealReference,omitempty"`
	DealStatus     DealStatus       `mapstructure:"dealStatus" json:"dealStatus,omitempty" validate:"omitempty,oneof=ACCEPTED REJECTED"`
	Direction      Direction        `mapstructure:"direction" json:"direction,omitempty" validate:"omitempty,oneof=BUY SELL"`
	Epic           string           `mapstructure:"epic" json:"epic,omitempty"`
	Expiry         string           `mapstructure:"expiry" json:"expiry,omitempty"`
	Level          *decimal.Decimal `mapstructure:"level" json:"level,omitempty"`
	LimitLevel     *decimal.Decimal `mapstructure:"limitLevel" json:"limitLevel,omitempty"`
	StopLevel      *decimal.Decimal `mapstructure:"stopLevel" json:"stopLevel,omitempty"`
	Size           *decimal.Decimal `mapstructure:"size" json:"size,omitempty"`
	Status         PositionStatus   `mapstructure:"status" json:"status,omitempty" validate:"omitempty,oneof=OPEN UPDATED AMENDED CLOSED DELETED"`
	Currency       string           `mapstructure:"currency" json:"currency,omitempty"`
	Channel        string           `mapstructure:"channel" json:"channel,omitempty"`
	GuaranteedStop *bool            `mapstructure:"guaranteedStop" json:"guaranteedStop,omitempty"`
	Timestamp      *time.Time       `mapstructure:"timestamp" json:"timestamp,omitempty"`
}

func (*PositionUpdate) Kind() enum.UpdateKind { return enum.UpdateKindPosition }

// WorkingOrderUpdate reports a change of a working order.
type WorkingOrderUpdate struct {
	AccountID      string           `mapstructure:"-" json:"accountId"`
	DealID         string           `mapstructure:"dealId" json:"dealId,omitempty"`
	DealReference  string           `mapstructure:"dealReference" json:"dealReference,omitempty"`
	DealStatus     DealStatus       `mapstructure:"dealStatus" json:"dealStatus,omitempty" validate:"omitempty,oneof=ACCEPTED REJECTED"`
	Direction      Direction        `mapstructure:"direction" json:"direction,omitempty" validate:"omitempty,oneof=BUY SELL"`
	Epic           string           `mapstructure:"epic" json:"epic,omitempty"`
	Expiry         string           `mapstructure:"expiry" json:"expiry,omitempty"`
	Level          *decimal.Decimal `mapstructure:"level" json:"level,omitempty"`
	LimitLevel     *decimal.Decimal `mapstructure:"limitLevel" json:"limitLevel,omitempty"`
	StopLevel      *decimal.Decimal `mapstructure:"stopLevel" json:"stopLevel,omitempty"`
	LimitDistance  *decimal.Decimal `mapstructure:"limitDistance" json:"limitDistance,omitempty"`
	StopDistance   *decimal.Decimal `mapstructure:"stopDistance" json:"stopDistance,omitempty"`
	Size           *decimal.Decimal `mapstructure:"size" json:"size,omitempty"`
	Status         PositionStatus   `mapstructure:"status" json:"status,omitempty" validate:"omitempty,oneof=OPEN UPDATED AMENDED CLOSED DELETED"`
	OrderType      OrderType        `mapstructure:"orderType" json:"orderType,omitempty" validate:"omitempty,oneof=LIMIT STOP"`
	TimeInForce    TimeInForce      `mapstructure:"timeInForce" json:"timeInForce,omitempty" validate:"omitempty,oneof=GOOD_TILL_CANCELLED GOOD_TILL_DATE"`
	GoodTillDate   string           `mapstructure:"goodTillDate" json:"goodTillDate,omitempty"`
	Currency       string           `mapstructure:"currency" json:"currency,omitempty"`
	Channel        string           `mapstructure:"channel" json:"channel,omitempty"`
	GuaranteedStop *bool            `mapstructure:"guaranteedStop" json:"guaranteedStop,omitempty"`
	Timestamp      *time.Time       `mapstructure:"timestamp" json:"timestamp,omitempty"`
}

func (*WorkingOrderUpdate) Kind() enum.UpdateKind { return enum.UpdateKindWorkingOrder }
