package config

// CollectionStruct names the Firestore collections used by the portal.
type CollectionStruct struct {
	Admins        string
	Users         string
	Usernames     string
	Courses       string
	Announcements string
	Reactions     string
}

var Collection = &CollectionStruct{
	Admins:        "admins",
	Users:         "users",
	Usernames:     "usernames",
	Courses:       "courses",
	Announcements: "announcements",
	Reactions:     "reactions",
}
