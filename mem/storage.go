// Package mem provides the storage backing and the access protocol shared by
// all the components of the memory subsystem.
package mem

import (
	"encoding/binary"
	"errors"
)

// Defines common memory capacity units.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
	GB uint64 = 1 << 30
)

// WordSize is the number of bytes in a machine word.
const WordSize uint64 = 4

// A Storage keeps the data of the simulated memory array.
//
// The storage manages its backing memory in units. Units that are never
// touched by Read or Write are not allocated.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the given capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	s := new(Storage)

	s.unitSize = 4096
	s.capacity = capacity
	s.data = make(map[uint64][]byte)

	return s
}

// Capacity returns the capacity of the storage in bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// CapacityWords returns the capacity of the storage in words.
func (s *Storage) CapacityWords() uint64 {
	return s.capacity / WordSize
}

func (s *Storage) createOrGetUnit(address uint64) ([]byte, error) {
	if address >= s.capacity {
		return nil, errors.New(
			"accessing physical address beyond the storage capacity")
	}

	baseAddr, _ := s.parseAddress(address)
	unit, ok := s.data[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	return unit, nil
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr

	return baseAddr, inUnitAddr
}

// Read returns a number of bytes from the storage, starting at address.
func (s *Storage) Read(address, length uint64) ([]byte, error) {
	currAddr := address
	lenLeft := length
	dataOffset := uint64(0)
	res := make([]byte, length)

	for currAddr < address+length {
		unit, err := s.createOrGetUnit(currAddr)
		if err != nil {
			return nil, err
		}

		baseAddr, inUnitAddr := s.parseAddress(currAddr)
		lenLeftInUnit := baseAddr + s.unitSize - currAddr
		lenToRead := lenLeftInUnit
		if lenLeft < lenLeftInUnit {
			lenToRead = lenLeft
		}

		copy(res[dataOffset:dataOffset+lenToRead],
			unit[inUnitAddr:inUnitAddr+lenToRead])
		lenLeft -= lenToRead
		dataOffset += lenToRead
		currAddr += lenToRead
	}

	return res, nil
}

// Write stores the given bytes into the storage, starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < uint64(len(data)) {
		unit, err := s.createOrGetUnit(currAddr)
		if err != nil {
			return err
		}

		baseAddr, inUnitAddr := s.parseAddress(currAddr)
		lenLeftInData := uint64(len(data)) - dataOffset
		lenLeftInUnit := baseAddr + s.unitSize - currAddr
		lenToWrite := lenLeftInUnit
		if lenLeftInData < lenLeftInUnit {
			lenToWrite = lenLeftInData
		}

		copy(unit[inUnitAddr:inUnitAddr+lenToWrite],
			data[dataOffset:dataOffset+lenToWrite])
		dataOffset += lenToWrite
		currAddr += lenToWrite
	}

	return nil
}

// ReadWord returns the 32-bit word at the given word address. Words are
// stored little-endian.
func (s *Storage) ReadWord(wordAddr uint64) (uint32, error) {
	data, err := s.Read(wordAddr*WordSize, WordSize)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(data), nil
}

// WriteWord stores a 32-bit word at the given word address.
func (s *Storage) WriteWord(wordAddr uint64, value uint32) error {
	data := make([]byte, WordSize)
	binary.LittleEndian.PutUint32(data, value)

	return s.Write(wordAddr*WordSize, data)
}
