package education

import (
	"errors"
	"testing"
)

func TestGet(t *testing.T) {
	tests := []struct {
		id      string
		want    string
		wantErr bool
	}{
		{"1", "primeiro_salario", false},
		{"3", "investimentos", false},
		{"4", "", true},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c, err := Get(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrContentNotFound) {
					t.Errorf("Get(%q) error = %v, want ErrContentNotFound", tt.id, err)
				}
				return
			}
			if err != nil || c.Type != tt.want {
				t.Errorf("Get(%q) = %+v, %v", tt.id, c, err)
			}
		})
	}
}

func TestListIsACopy(t *testing.T) {
	l := List()
	if len(l) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(l))
	}
	l[0].Title = "changed"
	if List()[0].Title != "Primeiro Salário" {
		t.Error("List() exposes the catalog")
	}
}

func TestValidType(t *testing.T) {
	for _, typ := range []string{"geral", "educacao_basica"} {
		if !ValidType(typ) {
			t.Errorf("ValidType(%q) = false", typ)
		}
	}
	if ValidType("astrologia") {
		t.Error("ValidType(astrologia) = true")
	}
}
