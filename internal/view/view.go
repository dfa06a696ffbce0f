// Package view renders display strings for the console and driver screens.
package view

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"courierdesk/internal/model"
)

const (
	ShortDateLayout = "Jan 02, 15:04"
	LongDateLayout  = "Jan 02, 2006 15:04"
)

// Tone names the colour family a status badge is drawn in.
type Tone string

const (
	ToneYellow Tone = "yellow"
	ToneBlue   Tone = "blue"
	TonePurple Tone = "purple"
	ToneIndigo Tone = "indigo"
	ToneGreen  Tone = "green"
	ToneRed    Tone = "red"
	ToneGray   Tone = "gray"
)

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// Rupees formats an amount with grouped thousands, e.g. ₹1,200 or ₹980.5.
func Rupees(amount float64) string {
	return printer.Sprintf("₹%v", number.Decimal(amount, number.MaxFractionDigits(2)))
}

func ShortDate(t time.Time, loc *time.Location) string {
	return in(t, loc).Format(ShortDateLayout)
}

func LongDate(t time.Time, loc *time.Location) string {
	return in(t, loc).Format(LongDateLayout)
}

func in(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// Label turns a status value such as picked-up into "Picked Up".
func Label[S ~string](s S) string {
	return titler.String(strings.ReplaceAll(string(s), "-", " "))
}

var orderTones = map[model.OrderStatus]Tone{
	model.OrderStatusPending:   ToneYellow,
	model.OrderStatusAssigned:  ToneBlue,
	model.OrderStatusPickedUp:  TonePurple,
	model.OrderStatusInTransit: ToneIndigo,
	model.OrderStatusDelivered: ToneGreen,
	model.OrderStatusReturned:  ToneRed,
}

var driverTones = map[model.DriverStatus]Tone{
	model.DriverStatusActive:     ToneGreen,
	model.DriverStatusInactive:   ToneGray,
	model.DriverStatusOnDelivery: ToneBlue,
}

var collectionTones = map[model.CollectionStatus]Tone{
	model.CollectionStatusPending:  ToneYellow,
	model.CollectionStatusApproved: ToneGreen,
	model.CollectionStatusRejected: ToneRed,
}

func OrderTone(s model.OrderStatus) Tone {
	return toneOr(orderTones[s])
}

func DriverTone(s model.DriverStatus) Tone {
	return toneOr(driverTones[s])
}

func CollectionTone(s model.CollectionStatus) Tone {
	return toneOr(collectionTones[s])
}

func toneOr(t Tone) Tone {
	if t == "" {
		return ToneGray
	}
	return t
}

// Action is a button offered to the driver for the next lifecycle step.
type Action struct {
	Status model.OrderStatus `json:"status"`
	Label  string            `json:"label"`
	Tone   Tone              `json:"tone"`
}

var actionLabels = map[model.OrderStatus]string{
	model.OrderStatusPickedUp:  "Mark as Picked Up",
	model.OrderStatusInTransit: "Start Delivery",
	model.OrderStatusDelivered: "Mark as Delivered",
	model.OrderStatusReturned:  "Mark as Returned",
}

// NextActions lists the buttons for an order in status s, primary first.
// Pending and terminal orders have none.
func NextActions(s model.OrderStatus) []Action {
	out := []Action{}
	if s == model.OrderStatusPending {
		return out
	}
	for _, next := range s.Next() {
		out = append(out, Action{Status: next, Label: actionLabels[next], Tone: OrderTone(next)})
	}
	return out
}

// Task is an order as shown in the driver's task list.
type Task struct {
	model.Order
	StatusLabel string   `json:"statusLabel"`
	StatusTone  Tone     `json:"statusTone"`
	AmountText  string   `json:"amountText"`
	CreatedText string   `json:"createdText"`
	Actions     []Action `json:"actions"`
}

func NewTask(o model.Order, loc *time.Location) Task {
	amount := Rupees(o.Amount)
	if o.CashOnDelivery {
		amount = fmt.Sprintf("%s (COD)", amount)
	}
	return Task{
		Order:       o,
		StatusLabel: Label(o.Status),
		StatusTone:  OrderTone(o.Status),
		AmountText:  amount,
		CreatedText: ShortDate(o.CreatedAt, loc),
		Actions:     NextActions(o.Status),
	}
}

func Tasks(orders []model.Order, loc *time.Location) []Task {
	out := make([]Task, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewTask(o, loc))
	}
	return out
}
