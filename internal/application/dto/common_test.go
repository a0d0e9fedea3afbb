package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/topmei-api/internal/application/dto"
)

func TestDefaultPage(t *testing.T) {
	p := dto.PageRequest{}
	p.DefaultPage()
	assert.Equal(t, dto.PageRequest{Limit: dto.DefaultPageLimit}, p)

	p = dto.PageRequest{Limit: 500, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, dto.PageRequest{Limit: dto.MaxPageLimit}, p)
}
