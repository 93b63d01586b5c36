// Package dbpf reads and writes DBPF package files, the packed-archive
// container a life-simulation game uses to bundle typed binary records
// (meshes, textures, tuning data) into single files.
//
// Opening a package parses only the header and index; record bytes are
// read and decompressed on demand:
//
//	p, err := dbpf.OpenFile("objects.package")
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//	if e, ok := p.Find(key); ok {
//	    data, err := p.ResourceData(e)
//	    ...
//	}
//
// Mutations are staged in memory and written out in a single pass:
//
//	p := dbpf.New()
//	e, err := p.AddResource(key, payload)
//	...
//	err = p.SaveToFile("out.package")
//
// Raw bytes become typed records through a [Registry], which maps a
// record's 32-bit type code to a [Factory]. Unregistered types fall back
// to a raw wrapper that preserves bytes verbatim, so every record remains
// representable and round-trips exactly.
package dbpf
