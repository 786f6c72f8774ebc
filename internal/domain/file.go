package domain

// Storage folders.
const (
	FolderProfiles  = "profiles"
	FolderDocuments = "documents"
)

// File is the stored metadata for an uploaded object. The object content
// itself lives behind the blob store collaborator; Key identifies it there.
type File struct {
	Base
	Name      string `gorm:"size:255;not null" json:"name"`
	Model     string `gorm:"size:100;index;not null" json:"model"`
	ModelID   uint   `gorm:"index;not null" json:"model_id"`
	Title     string `gorm:"size:255" json:"title"`
	Type      string `gorm:"size:100" json:"type"`
	Folder    string `gorm:"size:50;index;default:documents" json:"folder"`
	Key       string `gorm:"size:500;not null" json:"key"`
	IsPrivate bool   `gorm:"default:true" json:"is_private"`
	Details   string `gorm:"type:text" json:"details,omitempty"`

	Owner *User `gorm:"foreignKey:CreatedByUserID" json:"owner,omitempty"`
}

// FileDescriptor declares the file collection for the generic store.
// The owner join expands the uploading user on list and read.
func FileDescriptor() Descriptor {
	return Descriptor{
		Name:      "file",
		ListJoins: []string{"Owner"},
		ReadJoins: []string{"Owner"},
	}
}

// ValidFolder reports whether folder is a declared storage folder.
func ValidFolder(folder string) bool {
	switch folder {
	case FolderProfiles, FolderDocuments:
		return true
	}
	return false
}
