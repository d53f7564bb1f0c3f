package linker

import (
	"encoding/json"
	"os"

	"fleld/pkg/utils"
)

type File struct {
	Name    string
	Content []byte
}

func MustNewFile(filename string) *File {
	content, err := os.ReadFile(filename)
	utils.MustNo(err)
	return &File{
		Name:    filename,
		Content: content,
	}
}

// ReadObject decodes a JSON .fle container. The file name stands in
// for a missing object name.
func ReadObject(file *File) (*Object, error) {
	obj := &Object{}
	if err := json.Unmarshal(file.Content, obj); err != nil {
		return nil, err
	}
	if obj.Name == "" {
		obj.Name = file.Name
	}
	return obj, nil
}

// WriteObject stores obj as a JSON .fle container.
func WriteObject(path string, obj *Object) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
