// Package form implements the create/edit entry form.
//
// A Controller moves between three states:
//
//	Closed --Open*--> Active --RequestClose--> ConfirmingAbort
//	Active --Submit ok--> Closed
//	ConfirmingAbort --ConfirmClose(no)--> Active
//	ConfirmingAbort --ConfirmClose(yes)--> Closed (abort cleanup)
//
// While open the controller owns a draft record and the list of staged
// images. Attaching copies images into managed storage right away and
// detaching deletes them right away. Aborting a create deletes every staged
// image; aborting an edit deletes only the images staged in this session.
package form
