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

package merror

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FormatError signals a transcript line the field segmenter
// cannot interpret (an unknown leading character, a tier
// without an utterance).
type FormatError struct {
	File string
	Line int
	Text string
	Msg  string
}

func (err FormatError) Error() string {
	if err.File != "" {
		return fmt.Sprintf("%s (file %s, line %d): %q", err.Msg, err.File, err.Line, err.Text)
	}
	return fmt.Sprintf("%s (line %d): %q", err.Msg, err.Line, err.Text)
}

// Public returns the error message without the text
// of the offending line
func (err FormatError) Public() string {
	if err.File != "" {
		return fmt.Sprintf("%s (file %s, line %d)", err.Msg, err.File, err.Line)
	}
	return fmt.Sprintf("%s (line %d)", err.Msg, err.Line)
}

func (err FormatError) MarshalJSON() ([]byte, error) {
	return json.Marshal(err.Public())
}

// ----------------------------

// SchemaError is returned for metadata fields and tiers
// which are not in the recognized set. Such input means
// the corpus schema drifted and the run must stop.
type SchemaError struct {
	Msg   string
	Field string
}

func (err SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", err.Msg, err.Field)
}

// Public returns the error message without the offending field
func (err SchemaError) Public() string {
	return err.Msg
}

func (err SchemaError) MarshalJSON() ([]byte, error) {
	return json.Marshal(err.Public())
}

// ----------------------------

// FormError is returned when a morphology group cannot
// be flattened to a single surface form and category.
type FormError struct {
	Msg string
}

func (err FormError) Error() string {
	return err.Msg
}

func (err FormError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ----------------------------

type InputError struct {
	Msg string
}

func (err InputError) Error() string {
	return err.Msg
}

func (err InputError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ----------------------------

type InternalError struct {
	Msg string
}

func (err InternalError) Error() string {
	return err.Msg
}

func (err InternalError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ---------------------------

type RecoveredError struct {
	Msg string
}

func (err RecoveredError) Error() string {
	return err.Msg
}

func (err RecoveredError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ---------------------------

// DetailedError wraps an error whose message may contain parts
// of the processed data. Only Msg is shown to API clients.
type DetailedError struct {
	Msg string
	Err error
}

func (err DetailedError) Error() string {
	return fmt.Sprintf("%s: %s", err.Msg, err.Err)
}

func (err DetailedError) Unwrap() error {
	return err.Err
}

func (err DetailedError) Public() string {
	return err.Msg
}

// -----------------

// PublicMessage returns an error message which can be shown to
// API clients. Errors carrying the content of processed files
// (whole lines, unknown fields) are replaced by their public
// variant.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var pub interface{ Public() string }
	if errors.As(err, &pub) {
		return pub.Public()
	}
	return err.Error()
}

// IsFatal tells whether the error (or any error it wraps)
// belongs to the kinds which abort a whole run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var fe FormatError
	var se SchemaError
	var fme FormError
	var ie InternalError
	return errors.As(err, &fe) || errors.As(err, &se) ||
		errors.As(err, &fme) || errors.As(err, &ie)
}

func PanicValueToErr(v any) (err error) {
	switch tr := v.(type) {
	case error:
		err = fmt.Errorf("recovered panic: %w", tr)
	case string:
		err = fmt.Errorf("recovered panic: %s", tr)
	default:
		err = fmt.Errorf("recovered panic from an error of type %T", v)
	}
	return
}
