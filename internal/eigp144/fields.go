package eigp144

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Field describes one data identifier from the EIGP-114 table: the
// exact identifier string, a display name, and an optional parser that
// produces a typed value from the raw text.
type Field struct {
	Identifier string
	Name       string
	Parse      func(raw string) (any, error)
}

func parseInt(raw string) (any, error) {
	return strconv.Atoi(raw)
}

func parseDecimal(raw string) (any, error) {
	return decimal.NewFromString(raw)
}

func parseDate(raw string) (any, error) {
	return time.Parse("20060102", raw)
}

// The fixed EIGP-114 field table. Lookup is exact-match only; there is
// no runtime registration.
var (
	FieldCustomerPO         = Field{Identifier: "K", Name: "Customer PO"}
	FieldPackingListNumber  = Field{Identifier: "11K", Name: "Packing List Number"}
	FieldShipDate           = Field{Identifier: "6D", Name: "Ship Date", Parse: parseDate}
	FieldCustomerPartNumber = Field{Identifier: "P", Name: "Customer Part Number"}
	FieldSupplierPartNumber = Field{Identifier: "1P", Name: "Supplier Part Number"}
	FieldCustomerPOLine     = Field{Identifier: "4K", Name: "Customer PO Line"}
	FieldQuantity           = Field{Identifier: "Q", Name: "Quantity", Parse: parseInt}
	FieldDateCode0          = Field{Identifier: "9D", Name: "Date Code"}
	FieldDateCode1          = Field{Identifier: "10D", Name: "Date Code"}
	FieldLotCode            = Field{Identifier: "1T", Name: "Lot Code"}
	FieldCountryOfOrigin    = Field{Identifier: "4L", Name: "Country of Origin"}
	FieldBinCode            = Field{Identifier: "33P", Name: "BIN Code"}
	FieldPackageCount       = Field{Identifier: "13Q", Name: "Package Count", Parse: parseInt}
	FieldWeight             = Field{Identifier: "7Q", Name: "Weight", Parse: parseDecimal}
	FieldManufacturer       = Field{Identifier: "1V", Name: "Manufacturer"}
	FieldRohsCC             = Field{Identifier: "E", Name: "RoHS/CC"}
)

var allFields = []Field{
	FieldCustomerPO,
	FieldPackingListNumber,
	FieldShipDate,
	FieldCustomerPartNumber,
	FieldSupplierPartNumber,
	FieldCustomerPOLine,
	FieldQuantity,
	FieldDateCode0,
	FieldDateCode1,
	FieldLotCode,
	FieldCountryOfOrigin,
	FieldBinCode,
	FieldPackageCount,
	FieldWeight,
	FieldManufacturer,
	FieldRohsCC,
}

var fieldsByIdentifier = func() map[string]Field {
	m := make(map[string]Field, len(allFields))
	for _, f := range allFields {
		m[f.Identifier] = f
	}
	return m
}()

// Lookup resolves an identifier against the fixed field table.
func Lookup(identifier string) (Field, bool) {
	f, ok := fieldsByIdentifier[identifier]
	return f, ok
}
