// This file is part of ChipsFS.
//
// ChipsFS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ChipsFS is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ChipsFS.  If not, see <https://www.gnu.org/licenses/>.

package test

import (
	"bytes"
	"testing"
)

// ExpectEquality is used to test equality between one value and
// another.
func ExpectEquality[T comparable](t *testing.T, value T, expectedValue T) bool {
	t.Helper()
	if value != expectedValue {
		t.Errorf("equality test of type %T failed: '%v' does not equal '%v'", value, value, expectedValue)
		return false
	}
	return true
}

// ExpectInequality is the inverse of ExpectEquality.
func ExpectInequality[T comparable](t *testing.T, value T, expectedValue T) bool {
	t.Helper()
	if value == expectedValue {
		t.Errorf("inequality test of type %T failed: '%v' does equal '%v'", value, value, expectedValue)
		return false
	}
	return true
}

// ExpectedBytes is used to test equality between two byte slices.
func ExpectedBytes(t *testing.T, value []byte, expectedValue []byte) bool {
	t.Helper()
	if !bytes.Equal(value, expectedValue) {
		t.Errorf("byte equality test failed: '%v' does not equal '%v'", value, expectedValue)
		return false
	}
	return true
}

// ExpectSuccess tests argument v for a success condition suitable for
// its type. Supported types are bool (true), error (nil) and nil.
func ExpectSuccess(t *testing.T, v any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if !v {
			t.Errorf("expected success (bool)")
			return false
		}

	case error:
		if v != nil {
			t.Errorf("expected success (error: %v)", v)
			return false
		}

	case nil:
		return true

	default:
		t.Fatalf("unsupported type (%T) for ExpectSuccess()", v)
		return false
	}

	return true
}

// ExpectFailure tests argument v for a failure condition suitable for
// its type. Supported types are bool (false), error (non-nil) and nil.
func ExpectFailure(t *testing.T, v any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if v {
			t.Errorf("expected failure (bool)")
			return false
		}

	case error:
		if v == nil {
			t.Errorf("expected failure (error)")
			return false
		}

	case nil:
		t.Errorf("expected failure (nil)")
		return false

	default:
		t.Fatalf("unsupported type (%T) for ExpectFailure()", v)
		return false
	}

	return true
}

// ExpectImplements tests whether an instance is an implementation of
// the interface given as the type parameter.
func ExpectImplements[T any](t *testing.T, instance any) bool {
	t.Helper()
	if _, ok := instance.(T); !ok {
		t.Errorf("implementation test failed: type %T does not implement the required interface", instance)
		return false
	}
	return true
}

// DemandEquality is the same as ExpectEquality except that the test
// ends on failure.
func DemandEquality[T comparable](t *testing.T, value T, expectedValue T) {
	t.Helper()
	if !ExpectEquality(t, value, expectedValue) {
		t.FailNow()
	}
}

// DemandSuccess is the same as ExpectSuccess except that the test ends
// on failure.
func DemandSuccess(t *testing.T, v any) {
	t.Helper()
	if !ExpectSuccess(t, v) {
		t.FailNow()
	}
}

// DemandFailure is the same as ExpectFailure except that the test ends
// on failure.
func DemandFailure(t *testing.T, v any) {
	t.Helper()
	if !ExpectFailure(t, v) {
		t.FailNow()
	}
}
