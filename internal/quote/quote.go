// Package quote extracts structured order specifications from
// natural-language chat messages. It only activates on messages that look
// like a completed quote; arbitrary conversation yields nil.
package quote

import "github.com/shopspring/decimal"

// Logo is one extracted customization placement.
type Logo struct {
	Location   string          `json:"location"`
	Type       string          `json:"type"`
	Size       string          `json:"size"`
	MoldCharge decimal.Decimal `json:"moldCharge"`
	TotalCost  decimal.Decimal `json:"totalCost"`
}

// CapDetails holds the physical cap attributes of a quote.
type CapDetails struct {
	ProductName string   `json:"productName"`
	Quantity    int      `json:"quantity"`
	Size        string   `json:"size"`
	Colors      []string `json:"colors"`
	Profile     string   `json:"profile"`
	BillShape   string   `json:"billShape"`
	Structure   string   `json:"structure"`
	Fabric      string   `json:"fabric"`
	Closure     string   `json:"closure"`
}

// Customization holds extracted logos and accessories.
type Customization struct {
	Logos       []Logo   `json:"logos"`
	Accessories []string `json:"accessories"`
}

// Delivery holds the extracted shipping attributes.
type Delivery struct {
	Method   string          `json:"method"`
	LeadTime string          `json:"leadTime"`
	Cost     decimal.Decimal `json:"cost"`
}

// Pricing holds the extracted cost figures.
type Pricing struct {
	BaseProductCost decimal.Decimal `json:"baseProductCost"`
	LogosCost       decimal.Decimal `json:"logosCost"`
	DeliveryCost    decimal.Decimal `json:"deliveryCost"`
	Total           decimal.Decimal `json:"total"`
	Quantity        int             `json:"quantity"`
}

// ParsedQuote is the structured output of parsing one chat message.
type ParsedQuote struct {
	CapDetails    CapDetails    `json:"capDetails"`
	Customization Customization `json:"customization"`
	Delivery      Delivery      `json:"delivery"`
	Pricing       Pricing       `json:"pricing"`
}
