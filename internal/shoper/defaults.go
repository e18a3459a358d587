package shoper

import "fmt"

// DefaultsSummary reports a bulk-defaults run over one shop's products.
type DefaultsSummary struct {
	ProductsChecked int      `json:"products_checked"`
	Updated         int      `json:"updated"`
	Skipped         int      `json:"skipped"`
	Failed          int      `json:"failed"`
	Errors          []string `json:"errors"`
}

// recordIDKeys are the dotted paths tried when hunting for a product's id
// in a schema-less record.
var recordIDKeys = []string{
	"product_id", "id", "product.id", "product.product_id",
	"productId", "productID", "id_product",
}

// ApplyDefaults writes a default stock level and/or VAT rate to every
// product of the shop. The VAT value is resolved to the remote tax id
// first; products whose id cannot be located are skipped. Each product goes
// through the full write-verify path, so Updated counts confirmed writes
// only and partial outcomes land in Errors.
func (c *Client) ApplyDefaults(stockLevel *int, vatValue string) DefaultsSummary {
	summary := DefaultsSummary{}

	var taxID string
	if vatValue != "" {
		taxID = c.ResolveTaxID(vatValue)
		if taxID == "" {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("no remote tax rate matches %q, VAT update skipped", vatValue))
		}
	}
	if stockLevel == nil && taxID == "" {
		return summary
	}

	for _, product := range c.FetchRows("products", 0) {
		summary.ProductsChecked++

		id := recordID(product)
		if id == "" {
			summary.Skipped++
			continue
		}

		changes := make(map[string]interface{})
		if stockLevel != nil {
			changes["stock.stock"] = *stockLevel
		}
		if taxID != "" {
			changes["tax_id"] = taxID
		}

		outcome := c.UpdateRecord("products", id, changes)
		switch outcome.Status {
		case UpdateConfirmed:
			summary.Updated++
		case UpdatePartial:
			summary.Updated++
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("product %s: %s", id, outcome.Message))
		default:
			summary.Failed++
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("product %s: %s", id, outcome.Message))
		}
	}
	return summary
}

func recordID(record map[string]interface{}) string {
	for _, key := range recordIDKeys {
		if raw, ok := DotGet(record, key); ok && raw != nil {
			id := fmt.Sprint(raw)
			if id != "" && id != "0" {
				return id
			}
		}
	}
	return ""
}
