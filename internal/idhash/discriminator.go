package idhash

import "crypto/sha256"

// DiscriminatorSize is the length of instruction and account discriminators.
const DiscriminatorSize = 8

// Discriminator is the 8-byte tag prefixing instruction data and account data.
type Discriminator [DiscriminatorSize]byte

// InstructionDiscriminator returns SHA256("global:<name>")[:8].
func InstructionDiscriminator(name string) Discriminator {
	return sighash("global", name)
}

// AccountDiscriminator returns SHA256("account:<name>")[:8].
func AccountDiscriminator(name string) Discriminator {
	return sighash("account", name)
}

func sighash(namespace, name string) Discriminator {
	hash := sha256.Sum256([]byte(namespace + ":" + name))
	var d Discriminator
	copy(d[:], hash[:DiscriminatorSize])
	return d
}
