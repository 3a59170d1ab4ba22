package validate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zodchiy/internal/ir"
)

// ring строит кольцо из n моделей: M0 -> M1 -> ... -> M0.
func ring(n int) []ir.Model {
	models := make([]ir.Model, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Model%d", i)
		target := fmt.Sprintf("Model%d", (i+1)%n)
		models[i] = ir.Model{
			Name:   name,
			Fields: []ir.Field{{Name: "id", Type: ir.TypeUUID, Unique: true}},
			Relationships: []ir.Relationship{{
				Type:        ir.OneToMany,
				SourceModel: name,
				TargetModel: target,
			}},
		}
	}
	return models
}

func TestSelfLoop(t *testing.T) {
	m := ir.Model{
		Name:   "Category",
		Fields: []ir.Field{{Name: "id", Type: ir.TypeUUID, Unique: true}},
		Relationships: []ir.Relationship{{
			Type:        ir.OneToMany,
			SourceModel: "Category",
			TargetModel: "Category",
		}},
	}
	res := Validate([]ir.Model{m})
	assert.True(t, res.Valid, "cycles never fail validation")
	require.Len(t, res.Cycles, 1)
	assert.Equal(t, CodeCircular, res.Cycles[0].Code)
	assert.Contains(t, res.Cycles[0].Message, "Category -> Category")
}

func TestRings(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		t.Run(fmt.Sprintf("ring-%d", n), func(t *testing.T) {
			res := Validate(ring(n))
			assert.True(t, res.Valid)
			assert.Empty(t, res.Errors)
			// одно кольцо — одна находка, из какой бы вершины его ни нашли
			require.Len(t, res.Cycles, 1)
			assert.Equal(t, CodeCircular, res.Cycles[0].Code)
		})
	}
}

func TestDiamondIsNotACycle(t *testing.T) {
	// A -> B, A -> C, B -> D, C -> D: общая вершина D, но циклов нет
	mk := func(name string, targets ...string) ir.Model {
		m := ir.Model{
			Name:   name,
			Fields: []ir.Field{{Name: "id", Type: ir.TypeUUID, Unique: true}},
		}
		for _, tgt := range targets {
			m.Relationships = append(m.Relationships, ir.Relationship{
				Type: ir.OneToMany, SourceModel: name, TargetModel: tgt,
			})
		}
		return m
	}
	res := Validate([]ir.Model{
		mk("Alpha", "Beta", "Gamma"),
		mk("Beta", "Delta"),
		mk("Gamma", "Delta"),
		mk("Delta"),
	})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Cycles)
}

func TestTwoIndependentCycles(t *testing.T) {
	models := append(ring(2), ir.Model{
		Name:   "Loner",
		Fields: []ir.Field{{Name: "id", Type: ir.TypeUUID, Unique: true}},
		Relationships: []ir.Relationship{{
			Type: ir.OneToOne, SourceModel: "Loner", TargetModel: "Loner",
		}},
	})
	res := Validate(models)
	assert.Len(t, res.Cycles, 2)
}

func TestBrokenEdgeDoesNotEnterCycleGraph(t *testing.T) {
	m := ir.Model{
		Name:   "Order",
		Fields: []ir.Field{{Name: "id", Type: ir.TypeUUID, Unique: true}},
		Relationships: []ir.Relationship{{
			Type: ir.OneToMany, SourceModel: "Order", TargetModel: "Ghost",
		}},
	}
	res := Validate([]ir.Model{m})
	assert.False(t, res.Valid)
	assert.Empty(t, res.Cycles)
}
