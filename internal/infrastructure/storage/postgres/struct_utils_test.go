package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vistapos/internal/core/entity"
	"vistapos/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	Phone  string   `db:"phone" json:"phone"`
	Hidden string   `db:"-" json:"-"`
	Lines  []string `db:"-" json:"lines"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expected := []string{"id", "deletion_mark", "version", "code", "name", "phone"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
	assert.NotContains(t, cols, "-")
}

func TestStructToMap(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseCatalog: entity.BaseCatalog{
				BaseEntity: entity.BaseEntity{
					ID:           id.New(),
					DeletionMark: true,
					Version:      5,
				},
			},
			Code: "CLI-00001",
			Name: "Test Client",
		},
		Phone:  "+1 555 0100",
		Hidden: "skip me",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "CLI-00001", m["code"])
	assert.Equal(t, "Test Client", m["name"])
	assert.Equal(t, "+1 555 0100", m["phone"])

	_, hasHidden := m["-"]
	assert.False(t, hasHidden)
}

func TestStructToMap_PointerInput(t *testing.T) {
	cat := &mockCatalog{Phone: "+1 555 0101"}
	m := StructToMap(cat)
	assert.Equal(t, "+1 555 0101", m["phone"])
}
