package registry

import (
	_ "github.com/Alia5/keyview/report/console" // Register serial console source
	_ "github.com/Alia5/keyview/report/hidraw"  // Register raw HID source
	_ "github.com/Alia5/keyview/report/mock"    // Register simulated source
	_ "github.com/Alia5/keyview/report/relay"   // Register relay client source
)
