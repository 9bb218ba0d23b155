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

import "errors"

// Role errors
var (
	ErrNotGovernor     = errors.New("account does not hold the governor role")
	ErrAlreadyGovernor = errors.New("account already holds the governor role")
)

// Proposal errors
var (
	ErrProposalExists   = errors.New("proposal identifier already registered")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrInvalidDeadline  = errors.New("proposal deadline must lie in the future")
	ErrAlreadyVoted     = errors.New("governor has already voted on this proposal")
	ErrVotingClosed     = errors.New("proposal is closed for new votes")
)

// Authorization and configuration errors
var (
	ErrNotAuthorized        = errors.New("action is not backed by a valid proposal")
	ErrPercentageOutOfRange = errors.New("percentage must not exceed 100")
)
