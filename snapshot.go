package cppon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// snapshot.go is a binary serialization of a value tree so it can be
// persisted or shipped between processes without a text round-trip:
// a version byte, a compression-mode byte, and a varint-prefixed,
// optionally compressed whole-tree payload.
//
// An in-doc pointer is snapshotted as the textual path to its target
// (via FindObjectPath), the same lossy-but-recoverable form the printer
// uses for a non-flattened pointer; callers that need live pointers back
// should run ResolvePaths against the loaded tree.

// SnapshotCompression selects the compressor applied to the encoded
// tree body.
type SnapshotCompression uint8

const (
	SnapshotUncompressed SnapshotCompression = iota
	SnapshotS2
	SnapshotZstd
)

const snapshotVersion = 1

const (
	wireNull byte = iota
	wireBoolFalse
	wireBoolTrue
	wireObject
	wireArray
	wireString
	wireNumberToken
	wireNumber
	wirePathToken
	wirePointerNull
	wireBlobText
	wireBlobBytes
)

// Snapshot encodes tree into a self-describing binary buffer, applying
// comp's compression to the encoded body.
func Snapshot(tree *Value, comp SnapshotCompression) ([]byte, error) {
	var body bytes.Buffer
	encodeValue(&body, tree, tree)

	payload, err := compressBlock(comp, body.Bytes())
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.WriteByte(snapshotVersion)
	out.WriteByte(byte(comp))
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(body.Len()))
	out.Write(tmp[:n])
	n = binary.PutUvarint(tmp[:], uint64(len(payload)))
	out.Write(tmp[:n])
	out.Write(payload)
	return out.Bytes(), nil
}

// LoadSnapshot decodes a buffer produced by Snapshot back into a Value
// tree.
func LoadSnapshot(data []byte) (Value, error) {
	br := bytes.NewReader(data)
	ver, err := br.ReadByte()
	if err != nil {
		return Value{}, err
	}
	if ver != snapshotVersion {
		return Value{}, fmt.Errorf("cppon: unsupported snapshot version %d", ver)
	}
	compByte, err := br.ReadByte()
	if err != nil {
		return Value{}, err
	}
	rawSize, err := binary.ReadUvarint(br)
	if err != nil {
		return Value{}, err
	}
	compSize, err := binary.ReadUvarint(br)
	if err != nil {
		return Value{}, err
	}
	payload := make([]byte, compSize)
	if _, err := io.ReadFull(br, payload); err != nil {
		return Value{}, err
	}
	raw, err := decompressBlock(SnapshotCompression(compByte), payload, int(rawSize))
	if err != nil {
		return Value{}, err
	}
	return decodeValue(bytes.NewReader(raw))
}

func compressBlock(comp SnapshotCompression, raw []byte) ([]byte, error) {
	switch comp {
	case SnapshotUncompressed:
		return raw, nil
	case SnapshotS2:
		return s2.Encode(nil, raw), nil
	case SnapshotZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		out := enc.EncodeAll(raw, nil)
		enc.Close()
		return out, nil
	}
	return nil, errors.New("cppon: unknown snapshot compression mode")
}

func decompressBlock(comp SnapshotCompression, payload []byte, rawSize int) ([]byte, error) {
	switch comp {
	case SnapshotUncompressed:
		return payload, nil
	case SnapshotS2:
		return s2.Decode(make([]byte, 0, rawSize), payload)
	case SnapshotZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(payload, make([]byte, 0, rawSize))
	}
	return nil, errors.New("cppon: unknown snapshot compression mode")
}

func putUvarint(w *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.Write(tmp[:n])
}

func putString(w *bytes.Buffer, s string) {
	putUvarint(w, uint64(len(s)))
	w.WriteString(s)
}

func encodeValue(w *bytes.Buffer, root, v *Value) {
	switch v.kind {
	case KindNull:
		w.WriteByte(wireNull)
	case KindBool:
		if v.boolean {
			w.WriteByte(wireBoolTrue)
		} else {
			w.WriteByte(wireBoolFalse)
		}
	case KindObject:
		w.WriteByte(wireObject)
		obj, _ := v.Object()
		putUvarint(w, uint64(obj.Len()))
		for i := 0; i < obj.Len(); i++ {
			putString(w, obj.Key(i))
			encodeValue(w, root, obj.Value(i))
		}
	case KindArray:
		w.WriteByte(wireArray)
		arr, _ := v.Array()
		putUvarint(w, uint64(arr.Len()))
		for i := 0; i < arr.Len(); i++ {
			elem, _ := arr.At(i)
			encodeValue(w, root, elem)
		}
	case KindStringView, KindOwnedString:
		w.WriteByte(wireString)
		putString(w, v.str)
	case KindNumberToken:
		w.WriteByte(wireNumberToken)
		w.WriteByte(byte(v.numKind))
		putString(w, v.str)
	case KindNumber:
		w.WriteByte(wireNumber)
		w.WriteByte(byte(v.numKind))
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], v.bits)
		w.Write(tmp[:])
	case KindPathToken:
		w.WriteByte(wirePathToken)
		putString(w, v.str)
	case KindPointer:
		if v.ptr == nil {
			w.WriteByte(wirePointerNull)
			return
		}
		w.WriteByte(wirePathToken)
		putString(w, FindObjectPath(root, v.ptr))
	case KindBlobText:
		w.WriteByte(wireBlobText)
		putString(w, v.str)
	case KindBlobBytes:
		w.WriteByte(wireBlobBytes)
		putUvarint(w, uint64(len(v.bytes)))
		w.Write(v.bytes)
	}
}

func readUvarint(r *bytes.Reader) (uint64, error) {
	return binary.ReadUvarint(r)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUvarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return bytesToString(buf), nil
}

func decodeValue(r *bytes.Reader) (Value, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case wireNull:
		return Null(), nil
	case wireBoolFalse:
		return Bool(false), nil
	case wireBoolTrue:
		return Bool(true), nil
	case wireObject:
		n, err := readUvarint(r)
		if err != nil {
			return Value{}, err
		}
		obj := EmptyObject(int(n))
		ov, _ := obj.Object()
		for i := uint64(0); i < n; i++ {
			key, err := readString(r)
			if err != nil {
				return Value{}, err
			}
			val, err := decodeValue(r)
			if err != nil {
				return Value{}, err
			}
			ov.Set(key, val)
		}
		return obj, nil
	case wireArray:
		n, err := readUvarint(r)
		if err != nil {
			return Value{}, err
		}
		arr := EmptyArray(int(n))
		av, _ := arr.Array()
		for i := uint64(0); i < n; i++ {
			val, err := decodeValue(r)
			if err != nil {
				return Value{}, err
			}
			av.Append(val)
		}
		return arr, nil
	case wireString:
		s, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case wireNumberToken:
		kindByte, err := r.ReadByte()
		if err != nil {
			return Value{}, err
		}
		text, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindNumberToken, numKind: NumberKind(kindByte), str: text}, nil
	case wireNumber:
		kindByte, err := r.ReadByte()
		if err != nil {
			return Value{}, err
		}
		var tmp [8]byte
		if _, err := io.ReadFull(r, tmp[:]); err != nil {
			return Value{}, err
		}
		return numberValue(NumberKind(kindByte), binary.LittleEndian.Uint64(tmp[:])), nil
	case wirePathToken:
		s, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return pathToken(s), nil
	case wirePointerNull:
		return Pointer(nil), nil
	case wireBlobText:
		s, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindBlobText, str: s}, nil
	case wireBlobBytes:
		n, err := readUvarint(r)
		if err != nil {
			return Value{}, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Value{}, err
		}
		return BlobBytes(buf), nil
	}
	return Value{}, fmt.Errorf("cppon: unknown snapshot tag %d", tag)
}
