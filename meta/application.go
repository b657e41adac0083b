package meta

import (
	"encoding/binary"
	"io/ioutil"
)

// Application contains third party application specific data.
type Application struct {
	// Registered application ID.
	ID uint32
	// Application data.
	Data []byte
}

// parseApplication reads and parses the body of an Application metadata
// block.
func (block *Block) parseApplication() error {
	// 32 bits: ID.
	app := new(Application)
	block.Body = app
	if err := binary.Read(block.lr, binary.BigEndian, &app.ID); err != nil {
		return unexpected(err)
	}

	// Check if the Application block only contains an ID.
	if block.Length == 4 {
		return nil
	}

	// (block length)-4 bytes: Data.
	data, err := ioutil.ReadAll(block.lr)
	if err != nil {
		return unexpected(err)
	}
	app.Data = data
	return nil
}
