package parserbasic

import "time"

type Tags []string

type Shelf map[string]Book

type Author struct {
	_ struct{} `orm:"entity"`

	ID        int       `db:"id,primaryKey"`
	Name      string    `db:"name" json:"name"`
	Books     []Book    `rel:"one_to_many,mapped_by:Author"`
	Favorites Shelf     `rel:"many_to_many"`
	Aliases   [3]string `db:"aliases"`
	Tags      Tags
	Born      *time.Time
	Cache     string `db:"-"`
	secret    string
}

type Book struct {
	_ struct{} `orm:"entity,table:books"`

	ID     int     `db:"id,primaryKey"`
	Author *Author `rel:"many_to_one"`
	Rating float64 `rel:"sideways"`
}

// Draft has no entity marker.
type Draft struct {
	ID int `db:"id"`
}
