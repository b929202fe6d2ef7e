// SPDX-License-Identifier: MPL-2.0

package buildtool

import (
	"errors"
	"testing"
)

func TestExtractExecutable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		target  string
		want    string
		wantErr bool
	}{
		{
			name:   "cargo unittests line",
			output: "Executable unittests src/bin/basic_pub_bencher.rs (path/to/exe)",
			target: "basic_pub_bencher",
			want:   "path/to/exe",
		},
		{
			name: "path among compile noise",
			output: "   Compiling amqprs v1.5.0\n" +
				"    Finished `bench` profile [optimized] target(s) in 12.3s\n" +
				"  Executable benches/basic_pub.rs (target/release/deps/basic_pub-7f3a09)\n",
			target: "basic_pub",
			want:   "target/release/deps/basic_pub-7f3a09",
		},
		{
			name:   "quoted target file",
			output: "Compiling...\nExecutable bench \"basic_pub_bencher.rs\" (/tmp/exe123)",
			target: "basic_pub_bencher",
			want:   "/tmp/exe123",
		},
		{
			name: "only the matching target line counts",
			output: "Executable benches/other_bench.rs (target/release/deps/other-1)\n" +
				"Executable benches/basic_pub.rs (target/release/deps/basic_pub-2)\n",
			target: "basic_pub",
			want:   "target/release/deps/basic_pub-2",
		},
		{
			name:    "no matching line",
			output:  "Compiling amqprs v1.5.0\nFinished bench profile",
			target:  "basic_pub_bencher",
			wantErr: true,
		},
		{
			name:    "executable keyword without target",
			output:  "Executable benches/other_bench.rs (target/release/deps/other-1)",
			target:  "basic_pub",
			wantErr: true,
		},
		{
			name:    "matching line without parenthesized path",
			output:  "Executable benches/basic_pub.rs",
			target:  "basic_pub",
			wantErr: true,
		},
		{
			name:    "empty output",
			output:  "",
			target:  "basic_pub",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractExecutable(tt.output, tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got path %q", got)
				}
				if !errors.Is(err, ErrExecutableNotFound) {
					t.Errorf("expected error to wrap ErrExecutableNotFound, got %v", err)
				}
				if got != "" {
					t.Errorf("expected empty path on failure, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExecutableNotFoundErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ExecutableNotFoundError{Target: "basic_pub"}
	want := `no executable path for target "basic_pub" in build output`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
