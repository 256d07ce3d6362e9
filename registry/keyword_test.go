package registry

import "testing"

func TestSearchTerm(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		title string
		want  string
	}{
		{
			"title cleaned of store prefix",
			"https://www.amazon.com/dp/B0TEST",
			"Amazon.com: Stanley Quencher H2.0 Tumbler 40oz",
			"Stanley Quencher H2.0 Tumbler 40oz",
		},
		{
			"title truncated to six words",
			"https://example.com/p",
			"One Two Three Four Five Six Seven Eight",
			"One Two Three Four Five Six",
		},
		{
			"pipe suffix stripped",
			"https://example.com/p",
			"Cool Gadget | Best Store Ever",
			"Cool Gadget",
		},
		{
			"short title falls through to slug",
			"https://shop.example.com/products/ceramic-mug_large",
			"Hi",
			"ceramic mug large",
		},
		{
			"html segment falls through to hostname",
			"https://www.bestbuy.com/site/product.html",
			"",
			"bestbuy",
		},
		{
			"hostname only",
			"https://gadgetzone.io/",
			"",
			"gadgetzone",
		},
		{
			"nothing usable",
			"::not a url::",
			"",
			"Product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SearchTerm(tt.url, tt.title); got != tt.want {
				t.Errorf("SearchTerm(%q, %q) = %q, want %q", tt.url, tt.title, got, tt.want)
			}
		})
	}
}
