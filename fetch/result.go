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

package fetch

// Result describes the state of a channel's current operation.
//
// A channel starts as Idle and returns to Idle on reset. Starting a
// load moves the channel to Pending (or directly to Success/Failed for
// synchronous loads). Pending resolves to exactly one of Success or
// Failed during Poll(). There is no path back to Pending other than
// through a reset.
type Result int

// List of valid Result values.
const (
	Idle Result = iota
	Pending
	Success
	Failed
)

func (r Result) String() string {
	switch r {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}
