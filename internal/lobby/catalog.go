package lobby

// defaultChannels builds the built-in channel catalog: the lobby plus one
// room per supported game. Extra rooms from the configuration are layered
// on top by the server.
func defaultChannels() map[string]*Channel {
	chans := make(map[string]*Channel)
	add := func(name, rom, topic string) {
		chans[name] = newChannel(name, rom, topic)
	}

	add("lobby", "", "The Lobby")

	add("2020bb", "2020bb", "2020 Super Baseball (set 1)")
	add("3countb", "3countb", "3 Count Bout")
	add("aof", "aof", "Art of Fighting")
	add("aof2", "aof2", "Art of Fighting 2 (set 1)")
	add("aof3", "aof3", "Art of Fighting 3 - the path of the warrior")
	add("avsp", "avsp", "Alien vs Predator (940520 Euro)")
	add("breakers", "breakers", "Breakers")
	add("breakrev", "breakrev", "Breakers Revenge")
	add("ddsom", "ddsom", "Dungeons & Dragons - shadow over mystara (960619 Euro)")
	add("ddtod", "ddtod", "Dungeons & Dragons - tower of doom (940412 Euro)")
	add("dino", "dino", "Cadillacs & Dinosaurs (930201 etc)")
	add("doubledr", "doubledr", "Double Dragon")
	add("fatfursp", "fatfursp", "Fatal Fury Special (set 1)")
	add("fatfury1", "fatfury1", "Fatal Fury - king of fighters")
	add("fatfury2", "fatfury2", "Fatal Fury 2")
	add("fatfury3", "fatfury3", "Fatal Fury 3 - road to the final victory")
	add("garou", "garou", "Garou - mark of the wolves (set 1)")
	add("garouo", "garouo", "Garou - mark of the wolves (set 2)")
	add("hsf2", "hsf2", "Hyper Street Fighter 2: The Anniversary Edition (040202 Asia)")
	add("jojobane", "jojobane", "JoJo's Bizarre Adventure")
	add("karnovr", "karnovr", "Karnov's Revenge")
	add("kizuna", "kizuna", "Kizuna Encounter - super tag battle")
	add("kof94", "kof94", "King of Fighters '94")
	add("kof95", "kof95", "King of Fighters '95 (set 1)")
	add("kof96", "kof96", "King of Fighters '96 (set 1)")
	add("kof97", "kof97", "King of Fighters '97 (set 1)")
	add("kof98", "kof98", "King of Fighters '98 (Room 1)")
	add("kof98-2", "kof98", "King of Fighters '98 (Room 2)")
	add("kof98-3", "kof98", "King of Fighters '98 (Room 3)")
	add("kof99", "kof99", "King of Fighters '99 - millennium battle (set 1)")
	add("kof2000", "kof2000", "King of Fighters 2000")
	add("kof2001", "kof2001", "King of Fighters 2001 (set 1)")
	add("kof2002", "kof2002", "King of Fighters 2002 - challenge to ultimate battle")
	add("lastblad", "lastblad", "Last Blade (set 1)")
	add("lastbld2", "lastbld2", "Last Blade 2")
	add("magdrop3", "magdrop3", "Magical Drop III")
	add("matrim", "matrim", "Shin gouketsuzi ichizoku - Toukon")
	add("msh", "msh", "Marvel Super Heroes (951024 Euro)")
	add("mshvsf", "mshvsf", "Marvel Super Heroes vs Street Fighter (970625 Euro)")
	add("mslug", "mslug", "Metal Slug - super vehicle-001")
	add("mslug2", "mslug2", "Metal Slug 2 - super vehicle-001/II")
	add("mslug3", "mslug3", "Metal Slug 3")
	add("mslugx", "mslugx", "Metal Slug X - super vehicle-001")
	add("mvsc", "mvsc", "Marvel vs Capcom - clash of super heroes (980112 Euro)")
	add("ninjamas", "ninjamas", "Ninja Master's haoh ninpo cho")
	add("nwarr", "nwarr", "Night Warriors - darkstalkers' revenge (950316 Euro)")
	add("pbobblen", "pbobblen", "Puzzle Bobble (set 1)")
	add("rbff1", "rbff1", "Real Bout Fatal Fury")
	add("rbff2", "rbff2", "Real Bout Fatal Fury 2 - the newcomers (set 1)")
	add("rbffspec", "rbffspec", "Real Bout Fatal Fury Special")
	add("rotd", "rotd", "Rage of the Dragons")
	add("samsh5sp", "samsh5sp", "Samurai Shodown V Special (set 1, uncensored)")
	add("samsho", "samsho", "Samurai Shodown")
	add("samsho2", "samsho2", "Samurai Shodown II")
	add("samsho3", "samsho3", "Samurai Shodown III (set 1)")
	add("samsho4", "samsho4", "Samurai Shodown IV - Amakusa's revenge")
	add("samsho5", "samsho5", "Samurai Shodown V (set 1)")
	add("savagere", "savagere", "Savage Reign")
	add("sf2ce", "sf2ce", "Street Fighter II' - champion edition (street fighter 2' 920313 etc)")
	add("sf2hf", "sf2hf", "Street Fighter II' - hyper fighting (street fighter 2' T 921209 ETC)")
	add("sf2koryu", "sf2koryu", "Street Fighter II' - champion edition (Hack - kouryu) [Bootleg]")
	add("sfa", "sfa", "Street Fighter Alpha - warriors' dreams (950727 Euro)")
	add("sfa2", "sfa2", "Street Fighter Alpha 2 (960306 USA)")
	add("sfa3", "sfa3:sfa3u", "Street Fighter Alpha 3 (980904 Euro)")
	add("sfiii2n", "sfiii2n", "Street Fighter III 2nd Impact: Giant Attack (Asia 970930, NO CD)")
	add("sfiii3n", "sfiii3n", "Street Fighter III 3rd Strike: Fight for the Future (Japan 990512, NO CD)")
	add("sfiiin", "sfiiin", "Street Fighter III: New Generation (Asia 970204, NO CD)")
	add("sfz2aa", "sfz2aa", "Street Fighter Zero 2 Alpha (960826 Asia)")
	add("sgemf", "sgemf", "Super Gem Fighter Mini Mix (970904 USA)")
	add("spf2t", "spf2t", "Super Puzzle Fighter II Turbo (Super Puzzle Fighter 2 Turbo 960620 USA)")
	add("ssf2", "ssf2", "Super Street Fighter II - the new challengers (super street fighter 2 930911 etc)")
	add("ssf2t", "ssf2t", "Super Street Fighter II Turbo (super street fighter 2 X 940223 etc)")
	add("svcplus", "svcplus", "SvC Chaos - SNK vs Capcom Plus (bootleg, set 1)")
	add("unsupported", "unsupported", "Unsupported Games")
	add("vhunt2", "vhunt2", "Vampire Hunter 2 - darkstalkers revenge (970929 Japan)")
	add("vsav", "vsav", "Vampire Savior - the lord of vampire (970519 Euro)")
	add("vsav2", "vsav2", "Vampire Savior 2 - the lord of vampire (970913 Japan)")
	add("wakuwak7", "wakuwak7", "Waku Waku 7")
	add("whp", "whp", "World Heroes Perfect")
	add("wjammers", "wjammers", "Windjammers - flying disc game")
	add("xmcota", "xmcota", "X-Men - children of the atom (950105 Euro)")
	add("xmvsf", "xmvsf", "X-Men vs Street Fighter (961004 Euro)")

	return chans
}
