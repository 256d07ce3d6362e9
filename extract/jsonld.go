package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ysmood/gson"

	"github.com/clearcart/trustlens/page"
)

// productMetadata pulls title/image/price from embedded JSON-LD product
// offers, the single most reliable source when present. Malformed or
// missing blocks are treated as absent, never a hard failure.
func productMetadata(doc *page.Doc) (title, image, price Field) {
	doc.EachScript(func(payload string) bool {
		if !json.Valid([]byte(payload)) {
			return true // skip malformed block, keep scanning
		}
		node, ok := findProductNode(gson.NewFrom(payload))
		if !ok {
			return true
		}
		title = Some(page.CleanText(node.Get("name").Str()))
		image = imageField(node.Get("image"))
		price = offerPrice(node.Get("offers"))
		return false
	})
	return title, image, price
}

// findProductNode locates a Product node in a JSON-LD payload: a top-level
// object, an element of a top-level array, or a member of @graph.
func findProductNode(j gson.JSON) (gson.JSON, bool) {
	if _, isArr := j.Val().([]interface{}); isArr {
		for _, item := range j.Arr() {
			if isProduct(item) {
				return item, true
			}
		}
		return j, false
	}

	if isProduct(j) {
		return j, true
	}

	if _, isArr := j.Get("@graph").Val().([]interface{}); isArr {
		for _, item := range j.Get("@graph").Arr() {
			if isProduct(item) {
				return item, true
			}
		}
	}
	return j, false
}

func isProduct(j gson.JSON) bool {
	switch t := j.Get("@type").Val().(type) {
	case string:
		return strings.Contains(t, "Product")
	case []interface{}:
		for _, v := range t {
			if s, ok := v.(string); ok && strings.Contains(s, "Product") {
				return true
			}
		}
	}
	return false
}

// imageField handles both "image": "url" and "image": ["url", ...] shapes.
func imageField(j gson.JSON) Field {
	switch v := j.Val().(type) {
	case string:
		return Some(strings.TrimSpace(v))
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return Some(strings.TrimSpace(s))
			}
		}
	}
	return None()
}

// offerPrice extracts a display price from an offers node (object or array),
// trying price, then highPrice, then lowPrice. Bare numeric values are
// prefixed with "$" when the currency is USD or unstated.
func offerPrice(offers gson.JSON) Field {
	offer := offers
	if _, isArr := offers.Val().([]interface{}); isArr {
		arr := offers.Arr()
		if len(arr) == 0 {
			return None()
		}
		offer = arr[0]
	}

	var raw string
	for _, key := range []string{"price", "highPrice", "lowPrice"} {
		switch v := offer.Get(key).Val().(type) {
		case string:
			raw = strings.TrimSpace(v)
		case float64:
			raw = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if raw != "" {
			break
		}
	}
	if raw == "" {
		return None()
	}

	currency := offer.Get("priceCurrency").Str()
	if !strings.Contains(raw, "$") && (currency == "USD" || currency == "") {
		raw = "$" + raw
	}
	return Some(raw)
}
