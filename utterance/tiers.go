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

package utterance

import "strings"

// TierKind enumerates the recognized dependent tiers
type TierKind int

const (
	TierUnknown TierKind = iota
	TierMor
	TierXgra
	TierCom
	TierAct
	TierInt
	TierExp
	TierPho
	TierSpa
	TierPar
	TierAlt
	TierGpx
	TierSit
	TierAdd
	TierErr
	TierEng
	TierTrn
	TierXgrt
	TierPht
	TierGra
	TierXpho
	TierGrt
)

var tierTags = map[string]TierKind{
	"mor":  TierMor,
	"xgra": TierXgra,
	"com":  TierCom,
	"act":  TierAct,
	"int":  TierInt,
	"exp":  TierExp,
	"pho":  TierPho,
	"spa":  TierSpa,
	"par":  TierPar,
	"alt":  TierAlt,
	"gpx":  TierGpx,
	"sit":  TierSit,
	"add":  TierAdd,
	"err":  TierErr,
	"eng":  TierEng,
	"trn":  TierTrn,
	"xgrt": TierXgrt,
	"pht":  TierPht,
	"gra":  TierGra,
	"xpho": TierXpho,
	"grt":  TierGrt,
}

func (k TierKind) String() string {
	for tag, v := range tierTags {
		if v == k {
			return tag
		}
	}
	return "unknown"
}

func (k TierKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SplitTier splits a tier field (`%mor:\tpro|it ...`) into its
// kind, tag and payload. Unrecognized tags produce TierUnknown.
func SplitTier(text string) (kind TierKind, tag string, payload string) {
	body := strings.TrimPrefix(text, "%")
	colon := strings.Index(body, ":")
	if colon < 0 {
		return TierUnknown, body, ""
	}
	tag = body[:colon]
	payload = strings.TrimSpace(body[colon+1:])
	kind, ok := tierTags[tag]
	if !ok {
		return TierUnknown, tag, payload
	}
	return kind, tag, payload
}
