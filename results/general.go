// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of CHATFREQ.
//
//  CHATFREQ is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  CHATFREQ is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with CHATFREQ.  If not, see <https://www.gnu.org/licenses/>.

package results

import (
	"errors"
	"math"

	"chatfreq/merror"
	"chatfreq/rdb"
)

// NormRound performs a normalized rounding to
// the three decimal places so we can provide
// consistent rounding across all the results
func NormRound(val float64) float64 {
	return math.Round(val*1000) / 1000
}

func errToStr(err error) string {
	return merror.PublicMessage(err)
}

// ----

type ErrorResult struct {
	Func  string `json:"func"`
	Error string `json:"error"`
}

func (res *ErrorResult) Err() error {
	return errors.New(res.Error)
}

func (res *ErrorResult) Type() rdb.ResultType {
	return rdb.ResultTypeError
}
