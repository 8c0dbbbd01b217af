package idhash

import "testing"

func TestDiscriminators(t *testing.T) {
	tests := []struct {
		name string
		got  Discriminator
		want Discriminator
	}{
		{"create_token", InstructionDiscriminator("create_token"), Discriminator{84, 52, 204, 228, 24, 140, 234, 75}},
		{"mint_tokens", InstructionDiscriminator("mint_tokens"), Discriminator{59, 132, 24, 246, 122, 39, 8, 243}},
		{"TokenInfo", AccountDiscriminator("TokenInfo"), Discriminator{109, 162, 52, 125, 77, 166, 37, 202}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("discriminator = %v, want %v", tt.got, tt.want)
			}
		})
	}
}
