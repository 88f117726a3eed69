// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package serve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFlags(t *testing.T) {
	defer func(listen string) { flagListen = listen }(flagListen)
	tests := []struct {
		name    string
		listen  string
		wantErr bool
	}{
		{name: "default", listen: defaultListenAddr},
		{name: "host and port", listen: "127.0.0.1:9123"},
		{name: "missing port", listen: "localhost", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagListen = tt.listen
			err := validateFlags(Cmd, nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
