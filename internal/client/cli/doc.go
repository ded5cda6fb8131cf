// Package cli implements astcli, a one-shot command-line client for the
// directory service.
//
// Usage:
//
//	astcli [-a addr] [-t timeout] [-c config.json] <command> [operands]
//
// Commands:
//
//	providers                                        list every provider
//	provider ID                                      show one provider
//	add-provider FILE                                add a provider
//	update-provider ID FILE                          update a provider
//	add-instructor PROVIDER_ID FILE                  add an instructor, prints its id
//	update-instructor PROVIDER_ID INSTRUCTOR_ID FILE replace an instructor
//	courses                                          list every course
//	course ID                                        show one course
//	add-course FILE                                  add a course
//	update-course ID FILE                            replace a course
//	help                                             show this list
//
// FILE holds the JSON payload; "-" reads it from standard input. Results are
// printed as indented JSON.
package cli
