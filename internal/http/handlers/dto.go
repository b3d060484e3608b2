package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
	"github.com/rogerio-castellano/warehouse-inventory/internal/service"
)

// ProductRequest is the body of product create and update calls. Numeric
// fields accept JSON numbers or numeric strings; values of any other type
// decode as missing.
type ProductRequest struct {
	Name        looseString `json:"name" swaggertype:"string"`
	Price       looseFloat  `json:"price" swaggertype:"number"`
	Description looseString `json:"description" swaggertype:"string"`
	Quantity    looseInt    `json:"quantity" swaggertype:"integer"`
	Unit        looseString `json:"unit" swaggertype:"string"`
}

func (p ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        string(p.Name),
		Price:       float64(p.Price),
		Description: string(p.Description),
		Quantity:    int(p.Quantity),
		Unit:        string(p.Unit),
	}
}

// ProductResponse is a product as listed to clients. The id is the domain id
// rendered as a string.
type ProductResponse struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:          strconv.Itoa(p.ID),
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Quantity:    p.Quantity,
		Unit:        p.Unit,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	str, _ := v.(string)
	*s = looseString(str)
	return nil
}

type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	d, ok, err := decodeNumber(data)
	if err != nil {
		return err
	}
	*f = 0
	if ok {
		*f = looseFloat(d.InexactFloat64())
	}
	return nil
}

var (
	minInt = decimal.NewFromInt(math.MinInt)
	maxInt = decimal.NewFromInt(math.MaxInt)
)

// looseInt truncates fractional input toward zero. Values outside the int
// range are rejected.
type looseInt int

func (i *looseInt) UnmarshalJSON(data []byte) error {
	d, ok, err := decodeNumber(data)
	if err != nil {
		return err
	}
	*i = 0
	if !ok {
		return nil
	}
	d = d.Truncate(0)
	if d.LessThan(minInt) || d.GreaterThan(maxInt) {
		return fmt.Errorf("integer %s out of range", d)
	}
	*i = looseInt(d.IntPart())
	return nil
}

func decodeNumber(data []byte) (decimal.Decimal, bool, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return decimal.Zero, false, err
	}
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), true, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero, false, nil
		}
		return d, true, nil
	default:
		return decimal.Zero, false, nil
	}
}
