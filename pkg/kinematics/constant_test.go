package kinematics

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstant_MarshalJSON_CarriesDiscriminator(t *testing.T) {
	b, err := json.Marshal(Constant{VMax: 20, AAcc: 0.5, ADcc: 0.7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"constant","v_max":20,"a_acc":0.5,"a_dcc":0.7}`, string(b))
}

func TestConstant_Validate(t *testing.T) {
	tests := []struct {
		name  string
		model Constant
		field string
	}{
		{"valid", Constant{VMax: 20, AAcc: 0.5, ADcc: 0.7}, ""},
		{"zero v_max", Constant{VMax: 0, AAcc: 0.5, ADcc: 0.7}, "v_max"},
		{"negative a_acc", Constant{VMax: 20, AAcc: -1, ADcc: 0.7}, "a_acc"},
		{"NaN a_dcc", Constant{VMax: 20, AAcc: 0.5, ADcc: math.NaN()}, "a_dcc"},
		{"infinite v_max", Constant{VMax: math.Inf(1), AAcc: 0.5, ADcc: 0.7}, "v_max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, ConstantModelName, verr.Model)
		})
	}
}

func TestDecode_Constant(t *testing.T) {
	m, err := Decode([]byte(`{"model":"constant","v_max":20,"a_acc":0.5,"a_dcc":0.7}`))
	require.NoError(t, err)
	assert.Equal(t, Constant{VMax: 20, AAcc: 0.5, ADcc: 0.7}, m)
}

func TestDecode_UnknownModel_ReturnsError(t *testing.T) {
	_, err := Decode([]byte(`{"model":"davis"}`))
	assert.ErrorContains(t, err, `unknown kinematics model "davis"`)

	_, err = Decode([]byte(`[]`))
	assert.Error(t, err)
}
