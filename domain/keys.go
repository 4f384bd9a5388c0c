package domain

import "encoding/binary"

// Store layout. Singletons live under their name; maps use a 2-byte big-endian length-prefixed
// namespace followed by the 16-byte big-endian id, so keys of one map sort by id.
var (
	ConfigKey       = []byte("config")
	PotSeqKey       = []byte("pot_seq")
	ContractInfoKey = []byte("contract_info")

	PotNamespace     = []byte("pot")
	ProjectNamespace = []byte("prj")
)

func PotKey(id Uint128) []byte {
	return namespacedKey(PotNamespace, id.Bytes())
}

func ProjectKey(id Uint128) []byte {
	return namespacedKey(ProjectNamespace, id.Bytes())
}

func namespacedKey(namespace []byte, key []byte) []byte {
	res := make([]byte, 2, 2+len(namespace)+len(key))
	binary.BigEndian.PutUint16(res, uint16(len(namespace)))
	res = append(res, namespace...)
	return append(res, key...)
}

// Entry is one key/value write.
type Entry struct {
	Key   []byte
	Value []byte
}
