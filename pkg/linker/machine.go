package linker

import "encoding/binary"

// GeneratePltStub encodes the 6-byte indirect jump through a GOT
// slot: ff 25 <rel32>, i.e. jmp [rip + gotRel]. The displacement is
// counted from the end of the instruction.
func GeneratePltStub(gotRel int32) []byte {
	stub := make([]byte, PltStubSize)
	stub[0] = 0xff
	stub[1] = 0x25
	binary.LittleEndian.PutUint32(stub[2:], uint32(gotRel))
	return stub
}
