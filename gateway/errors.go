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

package gateway

import "errors"

// Role errors
var (
	ErrNotLeader     = errors.New("account does not hold the leader role")
	ErrAlreadyLeader = errors.New("account already holds the leader role")
)

// Authorization errors
var (
	ErrNotAuthorized    = errors.New("action is not backed by a valid proposal")
	ErrArgumentMismatch = errors.New("argument hash does not match the supplied arguments")
)

// Bounds and configuration errors
var (
	ErrTTLOutOfBounds       = errors.New("requested TTL is outside the leader bound")
	ErrPercentageOutOfRange = errors.New("percentage must not exceed 100")
)
