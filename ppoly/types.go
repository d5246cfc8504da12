// Copyright 2025 go-ppoly Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ppoly

import "math"

// Scalar is a constraint for the numeric kinds a piecewise polynomial can
// produce: real or complex double precision.
type Scalar interface {
	~float64 | ~complex128
}

// fromReal widens a float64 into T. Go has no float64 to complex128
// conversion inside generic code, so the widening goes through a pointer
// type switch.
func fromReal[T Scalar](x float64) (v T) {
	switch p := any(&v).(type) {
	case *float64:
		*p = x
	case *complex128:
		*p = complex(x, 0)
	}
	return v
}

// nan returns the undefined value of T: NaN, or NaN in both parts for
// complex128.
func nan[T Scalar]() (v T) {
	switch p := any(&v).(type) {
	case *float64:
		*p = math.NaN()
	case *complex128:
		*p = complex(math.NaN(), math.NaN())
	}
	return v
}

// order resolves direction-aware comparisons, so ascending and descending
// breakpoint sequences share one search path.
type order struct {
	asc bool
}

// orderOf derives the direction from the breakpoint endpoints.
func orderOf(breakpoints []float64) order {
	return order{asc: breakpoints[len(breakpoints)-1] >= breakpoints[0]}
}

// before reports whether x is strictly before y in breakpoint order.
func (o order) before(x, y float64) bool {
	if o.asc {
		return x < y
	}
	return x > y
}

// after reports whether x is strictly after y in breakpoint order.
func (o order) after(x, y float64) bool {
	if o.asc {
		return x > y
	}
	return x < y
}

// atOrAfter reports whether x is at or after y in breakpoint order.
func (o order) atOrAfter(x, y float64) bool {
	if o.asc {
		return x >= y
	}
	return x <= y
}
