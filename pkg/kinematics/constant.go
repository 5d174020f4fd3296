package kinematics

import "encoding/json"

// ConstantModelName is the JSON discriminator string for the Constant model.
const ConstantModelName = "constant"

// Constant implements Model using fixed acceleration and deceleration rates.
// This is the default and simplest kinematics model.
//
// JSON discriminator: "model": "constant"
type Constant struct {
	VMax float64 `json:"v_max"` // maximum speed, m/s
	AAcc float64 `json:"a_acc"` // traction acceleration, m/s²
	ADcc float64 `json:"a_dcc"` // service braking deceleration, m/s² (positive)
}

func (c Constant) ModelName() string { return ConstantModelName }

func (c Constant) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"v_max", c.VMax}, {"a_acc", c.AAcc}, {"a_dcc", c.ADcc}} {
		if err := checkPositive(ConstantModelName, p.name, p.v); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON writes the discriminator ahead of the model parameters.
func (c Constant) MarshalJSON() ([]byte, error) {
	type params Constant
	return json.Marshal(struct {
		Model string `json:"model"`
		params
	}{Model: ConstantModelName, params: params(c)})
}
