package model

// Category groups products under a unique name. Deleting a category
// never deletes its products; they are detached first (category_id
// set to NULL) and survive on their own.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique, required category name.
//  Description – free-form description, may be empty.
type Category struct {
	ID          uint64 // categories.id
	Name        string // categories.name
	Description string // categories.description
}
