package cipher

// Config carries the cipher material handed to format handlers. It replaces
// any process-wide table state: build it once and share it across opens.
type Config struct {
	// Network is the compiled bespoke block network (OldL1). Nil disables
	// the ciphered OldL1 interpretation.
	Network *Network
	// BlockKey is the Blowfish key for ciphered Ext and IdxV2 indexes.
	BlockKey []byte
	// DESKey is the 8-byte key for OldDes indexes.
	DESKey []byte
}

// Block returns the Blowfish ECB cipher for BlockKey.
func (c Config) Block() (*ECB, error) { return NewBlowfishECB(c.BlockKey) }

// DES returns the DES ECB cipher for DESKey.
func (c Config) DES() (*ECB, error) { return NewDESECB(c.DESKey) }
