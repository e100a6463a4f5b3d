package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-clinica/pkg/jwt"
)

const secret = "segredo"

func TestGenerateParse(t *testing.T) {
	tok, err := jwt.Generate(secret, "ana", jwt.RoleOperator, "estoque", 60)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "ana", userID)
	assert.Equal(t, jwt.RoleOperator, role)
}

func TestParse_Rechazos(t *testing.T) {
	vencido, err := jwt.Generate(secret, "ana", jwt.RoleAdmin, "estoque", -1)
	require.NoError(t, err)
	_, _, err = jwt.Parse(secret, vencido)
	assert.Error(t, err, "vencido")

	ok, err := jwt.Generate(secret, "ana", jwt.RoleAdmin, "estoque", 60)
	require.NoError(t, err)
	_, _, err = jwt.Parse("otro", ok)
	assert.Error(t, err, "firma con otro secreto")

	_, _, err = jwt.Parse("", ok)
	assert.Error(t, err)
}

func TestGenerate_SinSecreto(t *testing.T) {
	_, err := jwt.Generate("", "ana", jwt.RoleAdmin, "estoque", 60)
	assert.Error(t, err)
}

func TestValidRole(t *testing.T) {
	for _, r := range jwt.Roles() {
		assert.True(t, jwt.ValidRole(r), r)
	}
	assert.False(t, jwt.ValidRole("root"))
	assert.False(t, jwt.ValidRole(""))
}
