package services

import (
	"reflect"
	"testing"

	"yumzy-partner/models"
)

var testCatalog = []models.Location{
	{Name: "North Campus", SubLocations: []string{"Hall A", "Hall B"}},
	{Name: "South Campus", SubLocations: []string{"Annex", "Library"}},
}

func TestDeliverySelection(t *testing.T) {
	s := NewDeliverySelection(testCatalog)
	s.SetInitial([]string{"Library", "Hall A", "Gone"})
	if !s.IsSelected("North Campus", "Hall A") || !s.IsSelected("South Campus", "Library") {
		t.Fatal("initial selection not applied")
	}
	if s.IsSelected("North Campus", "Gone") {
		t.Error("locations missing from the catalog must be dropped")
	}

	s.Toggle("North Campus", "Hall B")
	s.Toggle("South Campus", "Library")
	want := []string{"Hall A", "Hall B"}
	if got := s.Final(); !reflect.DeepEqual(got, want) {
		t.Errorf("Final = %v, want %v", got, want)
	}

	s.Toggle("North Campus", "Hall A")
	s.Toggle("North Campus", "Hall B")
	if got := s.Final(); len(got) != 0 {
		t.Errorf("Final after clearing = %v, want empty", got)
	}
}

func TestParseLocationsYAML(t *testing.T) {
	data := []byte(`
locations:
  - name: North Campus
    subLocations: [Hall A, Hall B]
  - name: South Campus
    subLocations:
      - Annex
`)
	got, err := ParseLocationsYAML(data)
	if err != nil {
		t.Fatalf("ParseLocationsYAML: %v", err)
	}
	want := []models.Location{
		{Name: "North Campus", SubLocations: []string{"Hall A", "Hall B"}},
		{Name: "South Campus", SubLocations: []string{"Annex"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := ParseLocationsYAML([]byte("locations: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestDeliverySelectionKeepsSelectionOrder(t *testing.T) {
	s := NewDeliverySelection(testCatalog).SetInitial([]string{"Annex", "Hall A"})
	if got, want := s.Final(), []string{"Hall A", "Annex"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("initial Final = %v, want %v", got, want)
	}

	// clearing a base and selecting it again moves it to the end
	s.Toggle("North Campus", "Hall A")
	s.Toggle("North Campus", "Hall B")
	s.Toggle("South Campus", "Library")
	want := []string{"Annex", "Library", "Hall B"}
	if got := s.Final(); !reflect.DeepEqual(got, want) {
		t.Errorf("Final = %v, want %v", got, want)
	}
}

func TestDeliverySelectionHas(t *testing.T) {
	s := NewDeliverySelection(testCatalog)
	if !s.Has("North Campus", "Hall B") {
		t.Error("Hall B is in North Campus")
	}
	if s.Has("North Campus", "Library") || s.Has("Nowhere", "Hall A") {
		t.Error("sub-locations must be matched under their own base")
	}
	if got := s.SetInitial([]string{"Gone"}).Final(); len(got) != 0 {
		t.Errorf("unknown locations kept: %v", got)
	}
}
