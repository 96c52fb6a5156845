//
// Copyright (c) 2011-2019 Canonical Ltd
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

package yamlh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsBom(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF, 'a'}
	require.True(t, Is_bom(bom, 0))
	require.False(t, Is_bom(bom, 1))

	// The check is positional, not anchored to the buffer start.
	require.True(t, Is_bom(append([]byte{' '}, bom...), 1))

	// Never reads past the end of the buffer.
	require.False(t, Is_bom([]byte{0xEF, 0xBB}, 0))
	require.False(t, Is_bom(bom, 2))
}
