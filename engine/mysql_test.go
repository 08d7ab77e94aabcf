// Copyright 2023 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2023 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeGetFreqsTable(t *testing.T) {
	var conf *DBConf
	assert.Empty(t, conf.SafeGetFreqsTable())
	conf = &DBConf{FreqsTable: "verbs"}
	assert.Equal(t, "verbs", conf.SafeGetFreqsTable())
}

func TestDBConfValidateAndDefaults(t *testing.T) {
	var conf *DBConf
	assert.NoError(t, conf.ValidateAndDefaults("db"))

	conf = &DBConf{Host: "localhost:3306", Name: "chatfreq", User: "chatfreq"}
	require.NoError(t, conf.ValidateAndDefaults("db"))
	assert.Equal(t, dfltFreqsTable, conf.FreqsTable)
	assert.Equal(t, dfltPoolSize, conf.PoolSize)

	conf = &DBConf{Host: "localhost:3306", Name: "chatfreq", User: "chatfreq", FreqsTable: "x; DROP TABLE y"}
	assert.Error(t, conf.ValidateAndDefaults("db"))

	conf = &DBConf{Host: "localhost:3306", User: "chatfreq"}
	assert.Error(t, conf.ValidateAndDefaults("db"))
}

func TestOpenAppliesPoolSize(t *testing.T) {
	conf := &DBConf{Host: "localhost:3306", Name: "chatfreq", User: "chatfreq", PoolSize: 2}
	db, err := Open(conf)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 2, db.Stats().MaxOpenConnections)
}
