package service

import (
	"reflect"
	"testing"
)

func TestResolveUniverseStrictIntersection(t *testing.T) {
	listings := []Listing{
		{Exchange: "upbit", Codes: []string{"KRW-BTC", "KRW-ETH"}},
		{Exchange: "bithumb", Codes: []string{"KRW-BTC", "KRW-XRP"}},
	}

	got := ResolveUniverse(listings, PolicyIntersection, 0)
	want := []string{"KRW-BTC"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResolveUniverseQuorum(t *testing.T) {
	listings := []Listing{
		{Exchange: "upbit", Codes: []string{"KRW-BTC", "KRW-ETH", "KRW-XRP"}},
		{Exchange: "bithumb", Codes: []string{"KRW-BTC", "KRW-ETH"}},
		{Exchange: "binance", Codes: []string{"KRW-BTC", "KRW-SOL"}},
	}

	got := ResolveUniverse(listings, PolicyQuorum, 2)
	want := []string{"KRW-BTC", "KRW-ETH"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResolveUniverseEmptyIntersectionIsValid(t *testing.T) {
	listings := []Listing{
		{Exchange: "upbit", Codes: []string{"KRW-BTC"}},
		{Exchange: "bithumb", Codes: []string{"KRW-ETH"}},
	}

	got := ResolveUniverse(listings, PolicyIntersection, 0)
	if len(got) != 0 {
		t.Errorf("expected empty universe, got %v", got)
	}
}

func TestResolveUniverseOrderIndependent(t *testing.T) {
	a := []Listing{
		{Exchange: "upbit", Codes: []string{"KRW-ETH", "KRW-BTC"}},
		{Exchange: "bithumb", Codes: []string{"KRW-BTC", "KRW-ETH"}},
	}
	b := []Listing{
		{Exchange: "bithumb", Codes: []string{"KRW-ETH", "KRW-BTC"}},
		{Exchange: "upbit", Codes: []string{"KRW-BTC", "KRW-ETH"}},
	}

	if !reflect.DeepEqual(
		ResolveUniverse(a, PolicyIntersection, 0),
		ResolveUniverse(b, PolicyIntersection, 0),
	) {
		t.Error("identical listings in different order must resolve identically")
	}
}

func TestResolveUniverseDuplicatesCountOnce(t *testing.T) {
	listings := []Listing{
		{Exchange: "upbit", Codes: []string{"KRW-BTC", "KRW-BTC"}},
		{Exchange: "bithumb", Codes: []string{"KRW-ETH"}},
	}

	got := ResolveUniverse(listings, PolicyQuorum, 2)
	if len(got) != 0 {
		t.Errorf("a duplicate within one listing must not satisfy the quorum, got %v", got)
	}
}

func TestResolveUniverseNoListings(t *testing.T) {
	if got := ResolveUniverse(nil, PolicyIntersection, 0); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
