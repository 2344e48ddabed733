package trade

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

func TestBuildQuery_Minimal(t *testing.T) {
	q := BuildQuery(QueryOptions{BaseType: "Jade Amulet"})

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)

	for _, want := range []string{
		`"type":"Jade Amulet"`,
		`"status":{"option":"online"}`,
		`"sort":{"price":"asc"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("query missing %s: %s", want, body)
		}
	}
	if strings.Contains(body, "stats") || strings.Contains(body, "trade_filters") {
		t.Errorf("minimal query should omit optional filters: %s", body)
	}
}

func TestBuildQuery_Filters(t *testing.T) {
	q := BuildQuery(QueryOptions{
		BaseType:      "Jade Amulet",
		MinLife:       60,
		MaxPriceChaos: 50,
		OfflineOK:     true,
	})

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)

	for _, want := range []string{
		`"status":{"option":"any"}`,
		`"id":"pseudo.pseudo_total_life"`,
		`"min":60`,
		`"price":{"max":50}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("query missing %s: %s", want, body)
		}
	}
}

func TestUpdateRateLimit(t *testing.T) {
	c := NewClient(nil, zerolog.Nop())

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	resp.Header.Set("X-Rate-Limit-Ip", "8:10:60")
	resp.Header.Set("X-Rate-Limit-Ip-State", "1:10:0")

	c.updateRateLimit(resp)

	info := c.GetRateLimitInfo()
	if info.Rule != "8:10:60" || info.State != "1:10:0" {
		t.Errorf("unexpected rate limit info: %+v", info)
	}
	if info.UpdatedAt.IsZero() {
		t.Errorf("UpdatedAt should be set")
	}
}
