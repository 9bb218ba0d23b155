// Copyright 2025 The msgOracle Authors
// This file is part of the msgOracle library.
//
// The msgOracle library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The msgOracle library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the msgOracle library. If not, see <http://www.gnu.org/licenses/>.

package governance

// MeetsThreshold reports whether a vote count clears the required share
// of the governor roster. Cross-multiplication keeps the comparison
// exact: there is no division step whose truncation could make the same
// proposal pass for one observer and fail for another.
func MeetsThreshold(votes, governors, thresholdPct uint64) bool {
	return votes*100 >= governors*thresholdPct
}
