// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpc

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
	"github.com/stretchr/testify/require"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// record holds the calls made to mock kernels
var record []string

// mock is an explicit kernel with a given time step that may fail
type mock struct {
	name string  // name
	dt   float64 // time step
	fail bool    // AdvanceStep fails
}

func (o *mock) Name() string                                           { return o.name }
func (o *mock) Domain() string                                         { return "domain" }
func (o *mock) Initialize(S *state.State) error                        { return nil }
func (o *mock) SetStates(Sold, Snew *state.State)                      {}
func (o *mock) GetTimeStep() float64                                   { return o.dt }
func (o *mock) CalculateDiagnostics(S *state.State) error              { return nil }
func (o *mock) StateToSolution(S *state.State, u *pk.TreeVector) error { return nil }
func (o *mock) SolutionToState(u *pk.TreeVector, S *state.State) error { return nil }

func (o *mock) Setup(S *state.State) error {
	record = append(record, "setup "+o.name)
	return nil
}

func (o *mock) CommitState(dt float64, S *state.State) error {
	record = append(record, "commit "+o.name)
	return nil
}

func (o *mock) SolutionLayout(l *pk.Layout) (err error) {
	_, err = l.Register(o.name, 2)
	return
}

func (o *mock) AdvanceStep(tOld, tNew float64) (ok bool, err error) {
	record = append(record, "advance "+o.name)
	return !o.fail, nil
}

// linear is an implicit kernel solving (u - uOld)/h + u - c v = 0 where v is the value of another kernel
type linear struct {
	mock
	other string                   // name of the other kernel; may be empty
	c     float64                  // coupling coefficient
	vals  map[*state.State]float64 // values at each time level
	p     float64                  // preconditioner
}

func (o *linear) StateToSolution(S *state.State, u *pk.TreeVector) error {
	u.Sub(o.name)[0] = o.vals[S]
	return nil
}

func (o *linear) SolutionToState(u *pk.TreeVector, S *state.State) error {
	o.vals[S] = u.Sub(o.name)[0]
	return nil
}

func (o *linear) SolutionLayout(l *pk.Layout) (err error) {
	_, err = l.Register(o.name, 1)
	return
}

func (o *linear) Residual(tOld, tNew float64, uOld, uNew, f *pk.TreeVector) error {
	u := uNew.Sub(o.name)[0]
	res := (u-uOld.Sub(o.name)[0])/(tNew-tOld) + u
	if o.other != "" {
		res -= o.c * uNew.Sub(o.other)[0]
	}
	f.Sub(o.name)[0] = res
	return nil
}

func (o *linear) UpdatePreconditioner(t float64, u *pk.TreeVector, h float64) error {
	o.p = 1/h + 1
	return nil
}

func (o *linear) ApplyPreconditioner(u, Pu *pk.TreeVector) error {
	Pu.Sub(o.name)[0] = u.Sub(o.name)[0] / o.p
	return nil
}

func (o *linear) ErrorNorm(u, du *pk.TreeVector) float64 {
	return pk.ErrorNorm(u, du, o.name, 1e-10, 0)
}

func init() {
	pk.Register("mock", func(name string, plist inp.ParameterList, log zerolog.Logger) (pk.ProcessKernel, error) {
		o := &mock{name: name}
		var err error
		if o.dt, err = plist.GetFloat("dt", 1); err != nil {
			return nil, err
		}
		if o.fail, err = plist.GetBool("fail", false); err != nil {
			return nil, err
		}
		return o, nil
	})
	pk.Register("linear", func(name string, plist inp.ParameterList, log zerolog.Logger) (pk.ProcessKernel, error) {
		o := &linear{mock: mock{name: name, dt: 1}, vals: make(map[*state.State]float64)}
		var err error
		if o.other, err = plist.GetString("coupled to", ""); err != nil {
			return nil, err
		}
		if o.c, err = plist.GetFloat("coupling", 0); err != nil {
			return nil, err
		}
		return o, nil
	})
}

// mocks returns the parameters of a coupler of mock kernels with given time steps
func mocks(typ string, dts ...float64) inp.ParameterList {
	prms := inp.ParameterList{"PK type": typ}
	var names []interface{}
	for i, dt := range dts {
		name := io.Sf("pk%d", i)
		names = append(names, name)
		prms[name] = map[string]interface{}{"PK type": "mock", "dt": dt}
	}
	prms["PKs order"] = names
	return prms
}

func Test_weak01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("weak01. minimum time step and fan-out")

	record = nil
	k, err := pk.New("coupler", mocks("weak MPC", 0.5, 1.2, 0.3), zerolog.Nop())
	require.NoError(tst, err)
	o := k.(*Weak)
	chk.Float64(tst, "dt", 1e-15, o.GetTimeStep(), 0.3)

	// fan-out in order
	S := state.New(nil, zerolog.Nop())
	require.NoError(tst, o.Setup(S))
	ok, err := o.AdvanceStep(0, 0.3)
	require.NoError(tst, err)
	require.True(tst, ok)
	require.NoError(tst, o.CommitState(0.3, S))
	require.Equal(tst, []string{"setup pk0", "setup pk1", "setup pk2", "advance pk0", "advance pk1", "advance pk2",
		"commit pk0", "commit pk1", "commit pk2"}, record)

	// layout is the concatenation of children
	l := pk.NewLayout()
	require.NoError(tst, o.SolutionLayout(l))
	offset, n, err := l.Range("pk2")
	require.NoError(tst, err)
	chk.Ints(tst, "pk2", []int{offset, n}, []int{4, 2})
	offset, n, err = l.Range("coupler")
	require.NoError(tst, err)
	chk.Ints(tst, "coupler", []int{offset, n}, []int{0, 6})
	require.NotNil(tst, o.Child("pk1"))
	require.Nil(tst, o.Child("pk3"))
}

func Test_weak02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("weak02. fail fast")

	record = nil
	prms := mocks("weak MPC", 1, 1, 1)
	pk1, err := prms.Sublist("pk1")
	require.NoError(tst, err)
	pk1["fail"] = true
	k, err := pk.New("coupler", prms, zerolog.Nop())
	require.NoError(tst, err)
	ok, err := k.AdvanceStep(0, 1)
	require.NoError(tst, err)
	require.False(tst, ok)
	require.Equal(tst, []string{"advance pk0", "advance pk1"}, record)

	// configuration errors
	_, err = NewWeak("coupler", inp.ParameterList{}, zerolog.Nop())
	require.True(tst, state.IsConfig(err))
	_, err = NewWeak("coupler", inp.ParameterList{"PKs order": []interface{}{"flow"}}, zerolog.Nop())
	require.True(tst, state.IsConfig(err))
	_, err = NewWeak("coupler", inp.ParameterList{"PKs order": []interface{}{"flow"}, "flow": map[string]interface{}{"PK type": "magic"}}, zerolog.Nop())
	require.True(tst, state.IsConfig(err))
}

// strong returns a strong coupler of two linear kernels where b depends on a
func strong(tst *testing.T, precond string) (o *Strong, a, b *linear) {
	prms := inp.ParameterList{
		"PKs order":           []interface{}{"a", "b"},
		"a":                   map[string]interface{}{"PK type": "linear"},
		"b":                   map[string]interface{}{"PK type": "linear", "coupled to": "a", "coupling": 1.0},
		"preconditioner type": precond,
	}
	o, err := NewStrong("coupler", prms, zerolog.Nop())
	require.NoError(tst, err)
	require.NoError(tst, o.AddCoupling("b", "a", func(x, y []float64) error {
		y[0] -= x[0]
		return nil
	}))
	a, b = o.Children[0].(*linear), o.Children[1].(*linear)
	Sold, Snew := state.New(nil, zerolog.Nop()), state.New(nil, zerolog.Nop())
	a.vals[Sold], a.vals[Snew] = 1, 1
	b.vals[Sold], b.vals[Snew] = 0, 0
	o.SetStates(Sold, Snew)
	return
}

func Test_strong01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("strong01. fully coupled and block diagonal preconditioners")

	// exact preconditioner: one correction
	o, a, b := strong(tst, "fully coupled")
	chk.Float64(tst, "dt", 1e-15, o.GetTimeStep(), 1)
	ok, err := o.AdvanceStep(0, 1)
	require.NoError(tst, err)
	require.True(tst, ok)
	chk.Int(tst, "nits", o.Integrator.Iterations(), 2)
	chk.Float64(tst, "a", 1e-15, a.vals[o.Snew], 0.5)
	chk.Float64(tst, "b", 1e-15, b.vals[o.Snew], 0.25)
	chk.Float64(tst, "dt", 1e-15, o.GetTimeStep(), 1.25)

	// block diagonal: one more correction
	o, a, b = strong(tst, "block diagonal")
	ok, err = o.AdvanceStep(0, 1)
	require.NoError(tst, err)
	require.True(tst, ok)
	chk.Int(tst, "nits", o.Integrator.Iterations(), 3)
	chk.Float64(tst, "a", 1e-15, a.vals[o.Snew], 0.5)
	chk.Float64(tst, "b", 1e-15, b.vals[o.Snew], 0.25)

	// old state is untouched
	chk.Float64(tst, "a old", 1e-15, a.vals[o.Sold], 1)
}

func Test_strong02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("strong02. configuration errors")

	o, _, _ := strong(tst, "fully coupled")
	require.True(tst, state.IsConfig(o.AddCoupling("a", "b", nil)))
	require.True(tst, state.IsConfig(o.AddCoupling("a", "c", nil)))

	// explicit children
	_, err := NewStrong("coupler", mocks("strong MPC", 1, 1), zerolog.Nop())
	require.True(tst, state.IsConfig(err))

	// unknown preconditioner
	prms := inp.ParameterList{
		"PKs order":           []interface{}{"a"},
		"a":                   map[string]interface{}{"PK type": "linear"},
		"preconditioner type": "multigrid",
	}
	_, err = NewStrong("coupler", prms, zerolog.Nop())
	require.True(tst, state.IsConfig(err))
}
