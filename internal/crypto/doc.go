// Package crypto implements the at-rest encryption engine: a from-scratch
// AES block cipher (128- and 256-bit keys, per FIPS-197) wrapped in a CBC
// envelope with PKCS7 padding and a random 16-byte IV prepended to the
// ciphertext.
//
// The envelope protects persisted bytes against casual inspection only.
// PKCS7 validation on decrypt gives a cheap wrong-key signal, not
// integrity; there is no MAC.
package crypto
